package dto

import "time"

// CreateWarehouseRequest entrada para crear un almacén.
type CreateWarehouseRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	DepartmentID string `json:"department_id" validate:"max=100"`
	Address      string `json:"address" validate:"max=500"`
}

// UpdateWarehouseRequest entrada para actualizar un almacén.
type UpdateWarehouseRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	DepartmentID *string `json:"department_id" validate:"omitempty,max=100"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
}

// WarehouseFilter filtros del listado.
type WarehouseFilter struct {
	IncludeArchived bool   `query:"include_archived"`
	DepartmentID    string `query:"department_id"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsArchived   bool      `json:"is_archived"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de almacenes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
