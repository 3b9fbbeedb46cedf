package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceSnapshotRepository = (*BalanceSnapshotRepo)(nil)

// BalanceSnapshotRepo escribe la proyección verificada en stock_balances.
type BalanceSnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewBalanceSnapshotRepository construye el adaptador.
func NewBalanceSnapshotRepository(pool *pgxpool.Pool) *BalanceSnapshotRepo {
	return &BalanceSnapshotRepo{pool: pool}
}

// Replace sustituye el contenido completo de la tabla en una transacción.
func (r *BalanceSnapshotRepo) Replace(ctx context.Context, balances []entity.StockBalance, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM stock_balances`); err != nil {
		return fmt.Errorf("clear stock_balances: %w", err)
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"stock_balances"},
		[]string{"warehouse_id", "item_id", "quantity", "verified_at"},
		pgx.CopyFromSlice(len(balances), func(i int) ([]any, error) {
			b := balances[i]
			return []any{b.WarehouseID, b.ItemID, b.Quantity, at}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy stock_balances: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
