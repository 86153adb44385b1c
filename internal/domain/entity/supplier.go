package entity

import "time"

// Supplier representa un proveedor. Se desactiva con Active=false en lugar
// de eliminarse cuando tiene compras asociadas.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // RUT / NIT
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
}
