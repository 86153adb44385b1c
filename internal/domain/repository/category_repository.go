package repository

import "github.com/tu-usuario/almacen-pos/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	Update(category *entity.Category) error
	// List busca por nombre/descripción (q vacío = todas), orden alfabético.
	List(q string, limit, offset int) ([]*entity.Category, error)
	// Delete falla con ErrConflict si existen productos en la categoría.
	Delete(id string) error
}
