package dto

import "time"

// CreateItemRequest entrada para dar de alta un artículo de la nomenclatura.
type CreateItemRequest struct {
	SKU      string `json:"sku" validate:"max=64"`
	Name     string `json:"name" validate:"required,min=1,max=300"`
	Unit     string `json:"unit" validate:"required,max=20"`
	Category string `json:"category" validate:"max=100"`
	Notes    string `json:"notes" validate:"max=1000"`
}

// UpdateItemRequest entrada para actualizar un artículo.
type UpdateItemRequest struct {
	SKU      *string `json:"sku" validate:"omitempty,max=64"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=300"`
	Unit     *string `json:"unit" validate:"omitempty,min=1,max=20"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

// ItemFilter filtros del listado. Q busca en nombre y SKU sin distinguir mayúsculas.
type ItemFilter struct {
	IncludeArchived bool   `query:"include_archived"`
	Q               string `query:"q"`
	Category        string `query:"category"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Category   string    `json:"category,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemListResponse lista de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}
