package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RevisionRepository define el puerto de persistencia para revisiones (conteos físicos).
type RevisionRepository interface {
	Save(ctx context.Context, revision *entity.InventoryRevision) error
	GetByID(ctx context.Context, id string) (*entity.InventoryRevision, error)
	List(ctx context.Context) ([]*entity.InventoryRevision, error)
}

// RevisionSequence contador monótono de números de revisión.
type RevisionSequence interface {
	// Next devuelve el siguiente valor; nunca repite aunque haya llamadas concurrentes.
	Next(ctx context.Context) (int64, error)
	// Seed garantiza que el contador sea al menos min.
	Seed(ctx context.Context, min int64) error
}
