package inventory

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceCache proyección incremental: cada movimiento agregado aplica solo
// su delta. Debe ser equivalente a Project sobre el mismo registro; el
// verificador periódico lo comprueba con un plegado completo.
type BalanceCache struct {
	mu         sync.RWMutex
	balances   map[BalanceKey]decimal.Decimal
	applied    int
	byRevision map[string]string // revisionID -> movementID del ajuste
}

// NewBalanceCache crea una caché vacía.
func NewBalanceCache() *BalanceCache {
	return &BalanceCache{
		balances:   make(map[BalanceKey]decimal.Decimal),
		byRevision: make(map[string]string),
	}
}

// Reset descarta el estado y vuelve a plegar todo el registro.
// Devuelve los ids de movimientos omitidos.
func (c *BalanceCache) Reset(movements []*entity.StockMovement) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances = make(map[BalanceKey]decimal.Decimal)
	c.byRevision = make(map[string]string)
	c.applied = 0
	var skipped []string
	for _, m := range movements {
		if !c.applyLocked(m) {
			skipped = append(skipped, m.ID)
		}
	}
	return skipped
}

// Apply aplica el delta de un movimiento recién agregado. false si el
// movimiento no tuvo efecto.
func (c *BalanceCache) Apply(m *entity.StockMovement) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(m)
}

func (c *BalanceCache) applyLocked(m *entity.StockMovement) bool {
	ds, ok := deltas(m)
	if !ok {
		return false
	}
	for _, d := range ds {
		c.balances[d.key] = c.balances[d.key].Add(d.qty)
	}
	if m.RevisionID != "" {
		c.byRevision[m.RevisionID] = m.ID
	}
	c.applied++
	return true
}

// Get saldo actual; cero si la clave nunca recibió delta.
func (c *BalanceCache) Get(warehouseID, itemID string) decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balances[BalanceKey{warehouseID, itemID}]
}

// Snapshot todos los saldos ordenados por almacén y artículo.
func (c *BalanceCache) Snapshot() []entity.StockBalance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedBalances(c.balances)
}

// ByWarehouse saldos de un almacén, ordenados por artículo.
func (c *BalanceCache) ByWarehouse(warehouseID string) []entity.StockBalance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	acc := make(map[BalanceKey]decimal.Decimal)
	for k, q := range c.balances {
		if k.WarehouseID == warehouseID {
			acc[k] = q
		}
	}
	return sortedBalances(acc)
}

// Applied número de movimientos que tuvieron efecto.
func (c *BalanceCache) Applied() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}

// AdjustmentFor devuelve el movimiento de ajuste emitido por una revisión, si existe.
func (c *BalanceCache) AdjustmentFor(revisionID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byRevision[revisionID]
	return id, ok
}

// Shortfall devuelve la primera clave que quedaría negativa si se aplicara m.
func (c *BalanceCache) Shortfall(m *entity.StockMovement) (BalanceKey, bool) {
	ds, ok := deltas(m)
	if !ok {
		return BalanceKey{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	next := make(map[BalanceKey]decimal.Decimal, len(ds))
	for _, d := range ds {
		cur, seen := next[d.key]
		if !seen {
			cur = c.balances[d.key]
		}
		next[d.key] = cur.Add(d.qty)
	}
	for _, d := range ds {
		if d.qty.IsNegative() && next[d.key].IsNegative() {
			return d.key, true
		}
	}
	return BalanceKey{}, false
}

// Diff compara la caché con una proyección completa y devuelve las claves
// que no coinciden. Una clave ausente en un lado cuenta como cero.
func (c *BalanceCache) Diff(p Projection) []BalanceKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	want := make(map[BalanceKey]decimal.Decimal, len(p.Balances))
	for _, b := range p.Balances {
		want[BalanceKey{b.WarehouseID, b.ItemID}] = b.Quantity
	}
	var out []BalanceKey
	for k, q := range c.balances {
		if !q.Equal(want[k]) {
			out = append(out, k)
		}
	}
	for k, q := range want {
		if _, ok := c.balances[k]; !ok && !q.IsZero() {
			out = append(out, k)
		}
	}
	return out
}
