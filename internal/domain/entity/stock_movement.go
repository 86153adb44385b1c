package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementKindEntry = "entrada"
	MovementKindExit  = "salida"
)

// StockMovement es una entrada del libro de movimientos: registro
// inmutable de un cambio de cantidad. Quantity siempre es magnitud
// positiva; la dirección la da Kind. Reference apunta al origen
// ("Compra#12", "Venta#7", "Ajuste").
type StockMovement struct {
	ID        string
	ProductID string
	Kind      string // entrada | salida
	Quantity  decimal.Decimal
	Reason    string
	Reference string
	Date      time.Time
}

// SignedQuantity devuelve la cantidad con signo según el tipo.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Kind == MovementKindExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
