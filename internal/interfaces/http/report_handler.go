package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pos/internal/application/usecase"
)

// ReportHandler maneja los reportes de inventario.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Description  Productos activos en o bajo su stock mínimo, ordenados por categoría y nombre.
// @Tags         reportes
// @Produce      json
// @Success      200  {object}  dto.LowStockReportResponse
// @Router       /api/v1/reportes/bajo-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         reportes
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/v1/reportes/bajo-stock.pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.LowStockPDF()
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="bajo-stock.pdf"`)
	return c.Send(pdfBytes)
}
