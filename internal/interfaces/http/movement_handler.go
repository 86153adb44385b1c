package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/application/inventory"
)

// MovementHandler maneja el libro de movimientos de stock.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento directo
// @Description  Ajuste manual de stock (entrada o salida) fuera de compras y ventas.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/v1/movimientos [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Register(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Produce      json
// @Param        producto  query  string  false  "Filtrar por ID de producto"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.MovementListResponse
// @Router       /api/v1/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Query("producto"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
