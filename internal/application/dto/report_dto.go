package dto

import "github.com/shopspring/decimal"

// LowStockItemResponse fila del reporte de stock bajo.
type LowStockItemResponse struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitMeasure  string          `json:"unit_measure"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimum decimal.Decimal `json:"stock_minimum"`
}

// LowStockReportResponse reporte de productos en o bajo su umbral mínimo.
type LowStockReportResponse struct {
	Items []LowStockItemResponse `json:"items"`
	Count int                    `json:"count"`
}
