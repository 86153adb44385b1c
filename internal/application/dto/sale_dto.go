package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de una venta.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada del POS. Action "guardar" registra una venta
// de contado; "deuda" la registra como deuda, y entonces ClientName (o
// ClientID) es obligatorio: el cliente se resuelve por nombre exacto y se
// crea si no existe.
type CreateSaleRequest struct {
	Action     string            `json:"action"` // guardar | deuda
	ClientID   string            `json:"client_id" validate:"omitempty,uuid"`
	ClientName string            `json:"client_name"`
	Notes      string            `json:"notes"`
	Lines      []SaleLineRequest `json:"lines" validate:"required,min=1"`
}

// UpdateSaleLineRequest cambia la cantidad de una línea; el ledger
// registra solo el incremento (nueva − anterior) como salida/reposición.
type UpdateSaleLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// SaleLineResponse salida de una línea de venta.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID       string             `json:"id"`
	ClientID *string            `json:"client_id,omitempty"`
	Date     time.Time          `json:"date"`
	Notes    string             `json:"notes"`
	IsDebt   bool               `json:"is_debt"`
	Settled  bool               `json:"settled"`
	State    string             `json:"state"`
	Total    decimal.Decimal    `json:"total"`
	Lines    []SaleLineResponse `json:"lines,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DebtorResponse fila del listado de deudores.
type DebtorResponse struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Total      decimal.Decimal `json:"total"`
	LastDate   time.Time       `json:"last_date"`
}

// DebtorDetailResponse historial de deudas de un cliente.
type DebtorDetailResponse struct {
	Client ContactResponse `json:"client"`
	Debts  []SaleResponse  `json:"debts"`
}
