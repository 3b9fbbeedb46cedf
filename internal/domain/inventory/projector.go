// Package inventory contiene la lógica pura del registro de inventario:
// proyección de saldos, caché incremental, numeración de revisiones y
// construcción del ajuste de conciliación.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceKey identifica un saldo (almacén, artículo).
type BalanceKey struct {
	WarehouseID string
	ItemID      string
}

type delta struct {
	key BalanceKey
	qty decimal.Decimal
}

// Projection resultado de plegar el registro completo.
// Skipped lista los movimientos que no aportaron nada por faltarles el
// almacén que su tipo exige (datos heredados de clientes antiguos).
type Projection struct {
	Balances []entity.StockBalance
	Skipped  []string
}

// Project pliega los movimientos en orden y devuelve todos los saldos que
// recibieron algún delta, incluidos los que quedaron en cero o negativos.
// Es una función pura: misma entrada, misma salida (ordenada por almacén y artículo).
func Project(movements []*entity.StockMovement) Projection {
	acc := make(map[BalanceKey]decimal.Decimal)
	var skipped []string
	for _, m := range movements {
		ds, ok := deltas(m)
		if !ok {
			skipped = append(skipped, m.ID)
			continue
		}
		for _, d := range ds {
			acc[d.key] = acc[d.key].Add(d.qty)
		}
	}
	return Projection{Balances: sortedBalances(acc), Skipped: skipped}
}

// deltas traduce un movimiento a cambios de saldo. ok=false si el movimiento
// carece del almacén que exige su tipo; en ese caso no tiene efecto parcial.
func deltas(m *entity.StockMovement) ([]delta, bool) {
	if m == nil {
		return nil, false
	}
	var out []delta
	switch m.Type {
	case entity.MovementReceipt, entity.MovementAdjustment:
		if m.ToWarehouseID == "" {
			return nil, false
		}
		for _, l := range m.Items {
			out = append(out, delta{BalanceKey{m.ToWarehouseID, l.ItemID}, l.Quantity})
		}
	case entity.MovementWriteoff:
		if m.FromWarehouseID == "" {
			return nil, false
		}
		for _, l := range m.Items {
			out = append(out, delta{BalanceKey{m.FromWarehouseID, l.ItemID}, l.Quantity.Neg()})
		}
	case entity.MovementTransfer:
		if m.FromWarehouseID == "" || m.ToWarehouseID == "" {
			return nil, false
		}
		for _, l := range m.Items {
			out = append(out,
				delta{BalanceKey{m.FromWarehouseID, l.ItemID}, l.Quantity.Neg()},
				delta{BalanceKey{m.ToWarehouseID, l.ItemID}, l.Quantity},
			)
		}
	default:
		return nil, false
	}
	return out, true
}

func sortedBalances(acc map[BalanceKey]decimal.Decimal) []entity.StockBalance {
	out := make([]entity.StockBalance, 0, len(acc))
	for k, q := range acc {
		out = append(out, entity.StockBalance{WarehouseID: k.WarehouseID, ItemID: k.ItemID, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}
