package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// RevisionStatus estado de una revisión (conteo físico). draft -> posted, sin retorno.
type RevisionStatus string

const (
	RevisionDraft  RevisionStatus = "draft"
	RevisionPosted RevisionStatus = "posted"
)

// RevisionLine una línea del conteo: saldo del sistema contra lo contado.
type RevisionLine struct {
	ItemID         string          `json:"itemId"`
	QuantitySystem decimal.Decimal `json:"quantitySystem"`
	QuantityFact   decimal.Decimal `json:"quantityFact"`
}

// Diff devuelve fact - system.
func (l RevisionLine) Diff() decimal.Decimal {
	return l.QuantityFact.Sub(l.QuantitySystem)
}

// InventoryRevision conteo físico de un almacén en una fecha.
type InventoryRevision struct {
	ID                   string         `json:"id"`
	Number               string         `json:"number"`
	WarehouseID          string         `json:"warehouseId"`
	Date                 time.Time      `json:"date"`
	Status               RevisionStatus `json:"status"`
	Lines                []RevisionLine `json:"lines"`
	Reason               string         `json:"reason,omitempty"`
	CreatedByUserID      string         `json:"createdByUserId"`
	PostedAt             *time.Time     `json:"postedAt,omitempty"`
	AdjustmentMovementID string         `json:"adjustmentMovementId,omitempty"`
	Version              int64          `json:"version"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// IsDraft indica si la revisión aún admite cambios.
func (r *InventoryRevision) IsDraft() bool {
	return r.Status == RevisionDraft
}

// ReplaceLines sustituye todas las líneas (p. ej. al traer saldos actuales).
func (r *InventoryRevision) ReplaceLines(lines []RevisionLine, now time.Time) error {
	if !r.IsDraft() {
		return domain.ErrRevisionPosted
	}
	r.Lines = lines
	r.touch(now)
	return nil
}

// SetFact fija la cantidad contada de un artículo. Si el artículo no tiene
// línea se agrega una con system como saldo del sistema.
func (r *InventoryRevision) SetFact(itemID string, fact, system decimal.Decimal, now time.Time) error {
	if !r.IsDraft() {
		return domain.ErrRevisionPosted
	}
	if itemID == "" || fact.IsNegative() {
		return domain.ErrInvalidInput
	}
	for i := range r.Lines {
		if r.Lines[i].ItemID == itemID {
			r.Lines[i].QuantityFact = fact
			r.touch(now)
			return nil
		}
	}
	r.Lines = append(r.Lines, RevisionLine{ItemID: itemID, QuantitySystem: system, QuantityFact: fact})
	r.touch(now)
	return nil
}

// Discrepancies devuelve una línea de movimiento por cada artículo cuyo
// conteo difiere del sistema, con la diferencia con signo.
func (r *InventoryRevision) Discrepancies() []MovementLine {
	var out []MovementLine
	for _, l := range r.Lines {
		if d := l.Diff(); !d.IsZero() {
			out = append(out, MovementLine{ItemID: l.ItemID, Quantity: d})
		}
	}
	return out
}

// MarkPosted cierra la revisión. movementID puede ser vacío si no hubo diferencias.
func (r *InventoryRevision) MarkPosted(at time.Time, movementID string) error {
	if !r.IsDraft() {
		return domain.ErrRevisionPosted
	}
	r.Status = RevisionPosted
	r.PostedAt = &at
	r.AdjustmentMovementID = movementID
	r.touch(at)
	return nil
}

func (r *InventoryRevision) touch(now time.Time) {
	r.Version++
	r.UpdatedAt = now
}
