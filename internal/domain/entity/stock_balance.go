package entity

import "github.com/shopspring/decimal"

// StockBalance saldo derivado de un artículo en un almacén.
// No se persiste como fuente de verdad: se recalcula desde el registro.
type StockBalance struct {
	WarehouseID string          `json:"warehouseId"`
	ItemID      string          `json:"itemId"`
	Quantity    decimal.Decimal `json:"quantity"`
}
