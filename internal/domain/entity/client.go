package entity

import "time"

// Client representa un cliente del negocio. Las ventas a deuda siempre
// referencian un cliente; las ventas de contado pueden no tenerlo.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
}
