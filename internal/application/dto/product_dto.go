package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Code vacío =
// asignación automática del siguiente código correlativo libre.
type CreateProductRequest struct {
	Code         string          `json:"code" validate:"omitempty,max=30"`
	Name         string          `json:"name" validate:"required,min=1,max=120"`
	CategoryID   string          `json:"category_id" validate:"required,uuid"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimum decimal.Decimal `json:"stock_minimum"`
}

// UpdateProductRequest entrada para actualizar un producto. Stock no se
// toca aquí: solo se mueve a través del motor de inventario.
type UpdateProductRequest struct {
	Code         *string          `json:"code" validate:"omitempty,max=30"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=120"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitMeasure  *string          `json:"unit_measure"`
	Price        *decimal.Decimal `json:"price"`
	StockMinimum *decimal.Decimal `json:"stock_minimum"`
	Active       *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimum decimal.Decimal `json:"stock_minimum"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
