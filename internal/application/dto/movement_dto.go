package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada para registrar un movimiento directo
// (ajuste manual). Kind entrada|salida, Quantity magnitud positiva.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Kind      string          `json:"kind" validate:"required,oneof=entrada salida"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference"`
	Date      time.Time       `json:"date"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
