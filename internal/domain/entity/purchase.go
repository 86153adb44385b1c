package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa un ingreso de mercadería de un proveedor.
// Total es denormalizado: suma de cantidad × costo unitario de sus líneas.
type Purchase struct {
	ID         string
	SupplierID string
	Date       time.Time
	Notes      string
	Total      decimal.Decimal
	Lines      []PurchaseLine
	CreatedAt  time.Time
}

// PurchaseLine es una línea de compra. Al crearse suma stock; al
// eliminarse lo revierte (vía movimientos del ledger).
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// Subtotal de la línea.
func (l PurchaseLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}
