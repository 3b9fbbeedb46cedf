package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceSnapshotRepository exporta la proyección verificada a una tabla
// consultable por herramientas externas (reportes). Es opcional.
type BalanceSnapshotRepository interface {
	Replace(ctx context.Context, balances []entity.StockBalance, at time.Time) error
}
