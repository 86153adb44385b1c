package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/application/usecase"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

type fakePDFGenerator struct {
	items []dto.LowStockItemResponse
}

func (g *fakePDFGenerator) Generate(items []dto.LowStockItemResponse) ([]byte, error) {
	g.items = items
	return []byte("%PDF-1.7"), nil
}

func seedReportRepos() (*memProductRepo, *memCategoryRepo) {
	products := newMemProductRepo()
	categories := newMemCategoryRepo(
		&entity.Category{ID: "cat1", Name: "Abarrotes"},
		&entity.Category{ID: "cat2", Name: "Bebidas"},
	)

	// en el umbral exacto: cuenta como stock bajo
	products.Create(&entity.Product{
		ID: "p1", Code: "001", Name: "Arroz", CategoryID: "cat1",
		Stock: decimal.NewFromInt(5), StockMinimum: decimal.NewFromInt(5), Active: true,
	})
	// bajo el umbral
	products.Create(&entity.Product{
		ID: "p2", Code: "002", Name: "Gaseosa", CategoryID: "cat2",
		Stock: decimal.NewFromInt(1), StockMinimum: decimal.NewFromInt(6), Active: true,
	})
	// sobre el umbral: no aparece
	products.Create(&entity.Product{
		ID: "p3", Code: "003", Name: "Azúcar", CategoryID: "cat1",
		Stock: decimal.NewFromInt(20), StockMinimum: decimal.NewFromInt(5), Active: true,
	})
	// bajo el umbral pero inactivo: no aparece
	products.Create(&entity.Product{
		ID: "p4", Code: "004", Name: "Fideos", CategoryID: "cat1",
		Stock: decimal.Zero, StockMinimum: decimal.NewFromInt(5), Active: false,
	})
	return products, categories
}

func TestLowStock_FiltraYResuelveCategorias(t *testing.T) {
	products, categories := seedReportRepos()
	uc := usecase.NewReportUseCase(products, categories, &fakePDFGenerator{})

	out, err := uc.LowStock()
	require.NoError(t, err)

	require.Equal(t, 2, out.Count)
	require.Len(t, out.Items, 2)

	byID := map[string]dto.LowStockItemResponse{}
	for _, item := range out.Items {
		byID[item.ProductID] = item
	}
	assert.Equal(t, "Abarrotes", byID["p1"].Category, "el nombre de la categoría se resuelve")
	assert.Equal(t, "Bebidas", byID["p2"].Category)
	assert.NotContains(t, byID, "p3", "el producto con stock suficiente no aparece")
	assert.NotContains(t, byID, "p4", "el producto inactivo no aparece")
}

func TestLowStockPDF_GeneraConLosMismosItems(t *testing.T) {
	products, categories := seedReportRepos()
	gen := &fakePDFGenerator{}
	uc := usecase.NewReportUseCase(products, categories, gen)

	pdfBytes, err := uc.LowStockPDF()
	require.NoError(t, err)

	assert.NotEmpty(t, pdfBytes)
	assert.Len(t, gen.items, 2, "el PDF recibe los mismos ítems que el reporte JSON")
}
