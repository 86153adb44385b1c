package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
)

// DebtorSummary es una fila agregada del listado de deudores: total
// pendiente y fecha de la última deuda por cliente.
type DebtorSummary struct {
	ClientID   string
	ClientName string
	Total      decimal.Decimal
	LastDate   time.Time
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas
// (DIP). Las líneas se eliminan en cascada con la venta.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	// GetByID devuelve la venta con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	GetLine(lineID string) (*entity.SaleLine, error)
	UpdateLineQuantity(lineID string, quantity decimal.Decimal) error
	UpdateTotal(id string, total decimal.Decimal) error
	// SetSettled marca la deuda como pagada.
	SetSettled(id string, settled bool) error
	List(limit, offset int) ([]*entity.Sale, error)
	// ListDebtors agrega las deudas pendientes por cliente.
	ListDebtors() ([]*DebtorSummary, error)
	// ListDebtsByClient devuelve el historial de deudas (pendientes y
	// saldadas) de un cliente, con líneas, más reciente primero.
	ListDebtsByClient(clientID string) ([]*entity.Sale, error)
	Delete(id string) error
}
