package entity

import "time"

// InventoryItem es una entrada del catálogo de nomenclatura.
// La identidad es ID; SKU es un código de presentación y no se exige único.
type InventoryItem struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Category   string    `json:"category,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
