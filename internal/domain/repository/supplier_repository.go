package repository

import "github.com/tu-usuario/almacen-pos/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	// GetByName busca por nombre exacto (para resolver-o-crear en compras).
	GetByName(name string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	List(q string, limit, offset int) ([]*entity.Supplier, error)
	// Delete falla con ErrConflict si existen compras del proveedor.
	Delete(id string) error
}
