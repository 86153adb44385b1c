package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta derivados de los flags IsDebt/Settled.
const (
	SaleStateNormal      = "normal"       // contado; implícitamente saldada
	SaleStateDebtPending = "debt_pending" // deuda sin pagar
	SaleStateDebtSettled = "debt_settled" // deuda pagada
)

// Sale representa una venta POS. ClientID es obligatorio cuando IsDebt.
// Settled solo tiene significado en ventas a deuda; una venta de contado
// se persiste con Settled=true.
type Sale struct {
	ID        string
	ClientID  *string
	Date      time.Time
	Notes     string
	IsDebt    bool
	Settled   bool
	Total     decimal.Decimal
	Lines     []SaleLine
	CreatedAt time.Time
}

// State devuelve el estado lógico de la venta.
func (s *Sale) State() string {
	if !s.IsDebt {
		return SaleStateNormal
	}
	if s.Settled {
		return SaleStateDebtSettled
	}
	return SaleStateDebtPending
}

// SaleLine es una línea de venta. Al crearse descuenta stock; al
// eliminarse lo repone (vía movimientos del ledger).
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Subtotal de la línea.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}
