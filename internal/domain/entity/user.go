package entity

import "time"

// Roles válidos para User.
// admin: lectura y escritura total. vendedor: lectura global y escritura
// solo sobre movimientos de stock. consultor: solo lectura.
const (
	RoleAdmin     = "admin"
	RoleVendedor  = "vendedor"
	RoleConsultor = "consultor"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, vendedor, consultor
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
