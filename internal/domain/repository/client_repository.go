package repository

import "github.com/tu-usuario/almacen-pos/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// GetByName busca por nombre exacto (para resolver-o-crear el deudor).
	GetByName(name string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(q string, limit, offset int) ([]*entity.Client, error)
	// Delete falla con ErrConflict si existen ventas del cliente.
	Delete(id string) error
}
