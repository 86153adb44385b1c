package usecase

import (
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/domain/repository"
)

// LowStockPDFGenerator genera el reporte de stock bajo en PDF (puerto
// hacia la infraestructura de documentos).
type LowStockPDFGenerator interface {
	Generate(items []dto.LowStockItemResponse) ([]byte, error)
}

// ReportUseCase arma los reportes de inventario.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	pdfGen       LowStockPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	pdfGen LowStockPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, categoryRepo: categoryRepo, pdfGen: pdfGen}
}

// LowStock devuelve los productos activos en o bajo su umbral mínimo,
// ordenados por categoría y nombre.
func (uc *ReportUseCase) LowStock() (*dto.LowStockReportResponse, error) {
	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[string]string)
	items := make([]dto.LowStockItemResponse, 0, len(products))
	for _, p := range products {
		name, ok := categoryNames[p.CategoryID]
		if !ok {
			category, err := uc.categoryRepo.GetByID(p.CategoryID)
			if err != nil {
				return nil, err
			}
			if category != nil {
				name = category.Name
			}
			categoryNames[p.CategoryID] = name
		}
		items = append(items, dto.LowStockItemResponse{
			ProductID:    p.ID,
			Code:         p.Code,
			Name:         p.Name,
			Category:     name,
			UnitMeasure:  p.UnitMeasure,
			Stock:        p.Stock,
			StockMinimum: p.StockMinimum,
		})
	}
	return &dto.LowStockReportResponse{Items: items, Count: len(items)}, nil
}

// LowStockPDF genera el mismo reporte en PDF para imprimir.
func (uc *ReportUseCase) LowStockPDF() ([]byte, error) {
	report, err := uc.LowStock()
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.Generate(report.Items)
}
