package docstore

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del almacén de documentos.
type TxRunner struct {
	store repository.DocumentStore
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store repository.DocumentStore) *TxRunner {
	return &TxRunner{store: store}
}

// Run pasa a fn repositorios atados a la transacción; si fn falla no se persiste nada.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	revRepo repository.RevisionRepository,
) error) error {
	return r.store.WithTx(ctx, func(tx repository.DocumentStore) error {
		return fn(NewMovementRepository(tx), NewRevisionRepository(tx))
	})
}
