package repository

import (
	"time"

	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro
// de movimientos (DIP). Los movimientos solo se crean, nunca se mutan.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
