package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRevisionRequest entrada para abrir un conteo físico.
type CreateRevisionRequest struct {
	WarehouseID string     `json:"warehouse_id" validate:"required"`
	Date        *time.Time `json:"date"`
	Reason      string     `json:"reason" validate:"max=500"`
}

// SetFactRequest cantidad contada de un artículo. Quantity es obligatoria:
// un cero debe enviarse explícito. Version es opcional (concurrencia optimista).
type SetFactRequest struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required"`
	Version  *int64           `json:"version"`
}

// RevisionFilter filtros del listado de revisiones.
type RevisionFilter struct {
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status" validate:"omitempty,oneof=draft posted"`
}

// RevisionLineResponse línea del conteo.
type RevisionLineResponse struct {
	ItemID         string          `json:"item_id"`
	QuantitySystem decimal.Decimal `json:"quantity_system"`
	QuantityFact   decimal.Decimal `json:"quantity_fact"`
	Diff           decimal.Decimal `json:"diff"`
}

// RevisionResponse salida de una revisión.
type RevisionResponse struct {
	ID                   string                 `json:"id"`
	Number               string                 `json:"number"`
	WarehouseID          string                 `json:"warehouse_id"`
	Date                 time.Time              `json:"date"`
	Status               string                 `json:"status"`
	Lines                []RevisionLineResponse `json:"lines"`
	Reason               string                 `json:"reason,omitempty"`
	CreatedByUserID      string                 `json:"created_by_user_id"`
	PostedAt             *time.Time             `json:"posted_at,omitempty"`
	AdjustmentMovementID string                 `json:"adjustment_movement_id,omitempty"`
	Version              int64                  `json:"version"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// RevisionListResponse lista de revisiones, más recientes primero.
type RevisionListResponse struct {
	Items []RevisionResponse `json:"items"`
}

// PostRevisionResponse resultado de contabilizar. Applied=false si la revisión
// no existe o ya estaba contabilizada.
type PostRevisionResponse struct {
	Applied              bool              `json:"applied"`
	AdjustmentMovementID string            `json:"adjustment_movement_id,omitempty"`
	Revision             *RevisionResponse `json:"revision,omitempty"`
}

// RevisionSheet datos para imprimir la hoja de conteo.
type RevisionSheet struct {
	Number        string
	WarehouseName string
	Date          time.Time
	Status        string
	Reason        string
	Lines         []RevisionSheetLine
	TotalSystem   decimal.Decimal
	TotalFact     decimal.Decimal
	TotalDiff     decimal.Decimal
}

// RevisionSheetLine línea de la hoja de conteo.
type RevisionSheetLine struct {
	SKU    string
	Name   string
	Unit   string
	System decimal.Decimal
	Fact   decimal.Decimal
	Diff   decimal.Decimal
}
