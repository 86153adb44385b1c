package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pos/internal/application/sales"
)

// DebtHandler maneja el ciclo de vida de las deudas (fiados).
type DebtHandler struct {
	uc *sales.SaleUseCase
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *sales.SaleUseCase) *DebtHandler {
	return &DebtHandler{uc: uc}
}

// ListDebtors godoc
// @Summary      Listar deudores
// @Description  Una fila por cliente con deudas pendientes: total adeudado y fecha de la última deuda.
// @Tags         deudas
// @Produce      json
// @Success      200  {array}  dto.DebtorResponse
// @Router       /api/v1/deudores [get]
func (h *DebtHandler) ListDebtors(c *fiber.Ctx) error {
	out, err := h.uc.ListDebtors()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DebtorDetail godoc
// @Summary      Historial de deudas de un cliente
// @Tags         deudas
// @Produce      json
// @Param        clientId  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.DebtorDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/deudores/{clientId} [get]
func (h *DebtHandler) DebtorDetail(c *fiber.Ctx) error {
	out, err := h.uc.DebtorDetail(c.Params("clientId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Settle godoc
// @Summary      Pagar deuda
// @Description  Marca la deuda como saldada. Pagar una deuda ya saldada es un no-op.
// @Tags         deudas
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta a deuda"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse  "La venta no es una deuda"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/deudas/{id}/pagar [post]
func (h *DebtHandler) Settle(c *fiber.Ctx) error {
	if err := h.uc.SettleDebt(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar deuda pendiente
// @Description  Anula la deuda reponiendo el stock de cada línea. Una deuda saldada no puede eliminarse.
// @Tags         deudas
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta a deuda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "No es deuda pendiente"
// @Router       /api/v1/deudas/{id} [delete]
func (h *DebtHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDebt(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
