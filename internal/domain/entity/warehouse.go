package entity

import "time"

// Warehouse representa un almacén donde se guarda inventario.
// Los almacenes archivados no se ofrecen para movimientos nuevos, pero los
// movimientos históricos que los referencian siguen siendo válidos.
type Warehouse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"departmentId,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsArchived   bool      `json:"isArchived"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
