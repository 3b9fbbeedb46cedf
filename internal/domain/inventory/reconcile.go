package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AdjustmentReason texto de motivo que referencia la revisión.
func AdjustmentReason(number string) string {
	return fmt.Sprintf("Ревизия %s", number)
}

// BuildAdjustment construye el único movimiento de ajuste que concilia una
// revisión: fechado en la fecha de la revisión, sobre su almacén y con una
// línea por artículo con diferencia. Devuelve nil si el conteo coincide.
func BuildAdjustment(rev *entity.InventoryRevision, movementID, userID string, now time.Time) (*entity.StockMovement, error) {
	lines := rev.Discrepancies()
	if len(lines) == 0 {
		return nil, nil
	}
	return entity.NewStockMovement(entity.MovementParams{
		ID:              movementID,
		Type:            entity.MovementAdjustment,
		Date:            rev.Date,
		ToWarehouseID:   rev.WarehouseID,
		Items:           lines,
		Reason:          AdjustmentReason(rev.Number),
		RevisionID:      rev.ID,
		CreatedByUserID: userID,
		CreatedAt:       now,
	})
}
