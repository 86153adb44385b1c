package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para Purchase y sus
// líneas (DIP). Las líneas se eliminan en cascada con la compra.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	// GetByID devuelve la compra con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Purchase, error)
	GetLine(lineID string) (*entity.PurchaseLine, error)
	UpdateLineQuantity(lineID string, quantity decimal.Decimal) error
	UpdateTotal(id string, total decimal.Decimal) error
	List(limit, offset int) ([]*entity.Purchase, error)
	Delete(id string) error
}
