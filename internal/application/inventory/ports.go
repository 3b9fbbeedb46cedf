package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén, pasando
// repositorios atados a esa tx. Contabilizar una revisión (anexar el ajuste y
// marcarla contabilizada) ocurre completo o no ocurre.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		revRepo repository.RevisionRepository,
	) error) error
}

// RevisionSheetRenderer genera la hoja de conteo imprimible (PDF).
type RevisionSheetRenderer interface {
	RenderRevisionSheet(sheet dto.RevisionSheet) ([]byte, error)
}
