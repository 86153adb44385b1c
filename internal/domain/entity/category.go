package entity

import "time"

// Category representa una categoría de productos. Name es único.
// Se elimina con protección: si tiene productos asociados la eliminación falla.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
