package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de una compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest entrada para registrar una compra. Se indica
// SupplierID o SupplierName; con nombre se resuelve el proveedor por
// coincidencia exacta y se crea si no existe.
type CreatePurchaseRequest struct {
	SupplierID   string                `json:"supplier_id" validate:"omitempty,uuid"`
	SupplierName string                `json:"supplier_name"`
	Notes        string                `json:"notes"`
	Lines        []PurchaseLineRequest `json:"lines" validate:"required,min=1"`
}

// UpdatePurchaseLineRequest cambia la cantidad de una línea; el ledger
// registra solo el incremento (nueva − anterior).
type UpdatePurchaseLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// PurchaseLineResponse salida de una línea de compra.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Date       time.Time              `json:"date"`
	Notes      string                 `json:"notes"`
	Total      decimal.Decimal        `json:"total"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
