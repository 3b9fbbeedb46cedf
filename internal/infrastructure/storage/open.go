// Package storage elige el almacén de documentos según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Backend almacén abierto. Snapshots solo existe con postgres.
type Backend struct {
	Store     repository.DocumentStore
	Snapshots repository.BalanceSnapshotRepository
	closeFn   func()
}

// Close libera conexiones.
func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Open abre y migra el almacén configurado.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil

	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.Store.SQLitePath); dir != "" && cfg.Store.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: crear directorio: %w", err)
			}
		}
		st, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: st, closeFn: func() { _ = st.Close() }}, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		st := postgres.NewStore(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Store:     st,
			Snapshots: postgres.NewBalanceSnapshotRepository(pool),
			closeFn:   pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}
