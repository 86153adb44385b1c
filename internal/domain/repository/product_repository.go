package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock solo se escribe vía UpdateStock, siempre tras GetForUpdate dentro
// de la transacción del motor de inventario.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar compras/ventas concurrentes sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock decimal.Decimal) error
	// List busca por código/nombre (q vacío = todos), orden por nombre.
	List(q string, onlyActive bool, limit, offset int) ([]*entity.Product, error)
	// ListLowStock: activos con stock <= stock_minimum, orden por nombre de
	// categoría y luego nombre de producto.
	ListLowStock() ([]*entity.Product, error)
	// ListCodes devuelve todos los códigos existentes (asignación automática).
	ListCodes() ([]string, error)
	// Delete falla con ErrConflict si hay líneas o movimientos que lo referencian.
	Delete(id string) error
}
