package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de un movimiento.
type MovementLineRequest struct {
	ItemID   string           `json:"item_id"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// RegisterMovementRequest entrada para registrar un movimiento.
// receipt: to_warehouse_id; writeoff: from_warehouse_id; transfer: ambos;
// adjustment: to_warehouse_id con cantidades con signo.
type RegisterMovementRequest struct {
	Type            string                `json:"type" validate:"required"`
	Date            *time.Time            `json:"date"`
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	Items           []MovementLineRequest `json:"items"`
	Reason          string                `json:"reason" validate:"max=500"`
}

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	WarehouseID string `query:"warehouse_id"`
	ItemID      string `query:"item_id"`
	Type        string `query:"type" validate:"omitempty,oneof=receipt writeoff transfer adjustment"`
	Limit       int    `query:"limit" validate:"min=0,max=500"`
	Offset      int    `query:"offset" validate:"min=0"`
}

// Page devuelve la paginación con valores por defecto.
func (f MovementFilter) Page() PageRequest {
	p := PageRequest{Limit: f.Limit, Offset: f.Offset}
	p.DefaultPage()
	return p
}

// MovementLineResponse línea de un movimiento.
type MovementLineResponse struct {
	ItemID   string           `json:"item_id"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	Date            time.Time              `json:"date"`
	FromWarehouseID string                 `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string                 `json:"to_warehouse_id,omitempty"`
	Items           []MovementLineResponse `json:"items"`
	Reason          string                 `json:"reason,omitempty"`
	RevisionID      string                 `json:"revision_id,omitempty"`
	CreatedByUserID string                 `json:"created_by_user_id"`
	CreatedAt       time.Time              `json:"created_at"`
}

// MovementListResponse lista paginada, más recientes primero.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceFilter filtros de saldos. NonZero oculta los saldos en cero.
type BalanceFilter struct {
	WarehouseID string `query:"warehouse_id"`
	ItemID      string `query:"item_id"`
	NonZero     bool   `query:"nonzero"`
}

// BalanceResponse saldo derivado de un artículo en un almacén.
type BalanceResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ItemID      string          `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// BalanceListResponse saldos ordenados por almacén y artículo.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
}

// VerifyResponse resultado de contrastar la caché con el plegado completo.
type VerifyResponse struct {
	Movements  int               `json:"movements"`
	Skipped    []string          `json:"skipped,omitempty"`
	Drift      []BalanceResponse `json:"drift,omitempty"`
	Rebuilt    bool              `json:"rebuilt"`
	VerifiedAt time.Time         `json:"verified_at"`
}
