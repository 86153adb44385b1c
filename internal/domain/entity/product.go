package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Code es el SKU único.
// Stock se maneja con 3 decimales y solo se modifica a través del motor
// de inventario (ApplyDelta); el invariante es stock >= 0 tras cada
// operación confirmada. StockMinimum es el umbral del reporte de stock bajo.
type Product struct {
	ID           string
	Code         string
	Name         string
	CategoryID   string
	UnitMeasure  string // unidad, kg, lt, pack
	Price        decimal.Decimal // precio de venta
	Stock        decimal.Decimal
	StockMinimum decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock indica si el producto está en o bajo su umbral mínimo.
func (p *Product) LowStock() bool {
	return p.Stock.LessThanOrEqual(p.StockMinimum)
}
