package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        BIGSERIAL,
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	body       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection_seq ON documents (collection, seq);

CREATE TABLE IF NOT EXISTS stock_balances (
	warehouse_id TEXT           NOT NULL,
	item_id      TEXT           NOT NULL,
	quantity     NUMERIC(18, 4) NOT NULL,
	verified_at  TIMESTAMPTZ    NOT NULL,
	PRIMARY KEY (warehouse_id, item_id)
);`

// Store almacén de documentos en la nube: una tabla JSONB por instalación,
// particionada lógicamente por colección.
type Store struct {
	pool *pgxpool.Pool
	q    Querier
	inTx bool
}

// NewStore construye el almacén sobre el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// Migrate crea las tablas si no existen.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate documents: %w", err)
	}
	return nil
}

// GetAll devuelve los documentos por orden de inserción.
func (s *Store) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.q.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()
	var out [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

// GetByID devuelve nil, nil si no existe. Dentro de una transacción bloquea la fila.
func (s *Store) GetByID(ctx context.Context, collection, id string) ([]byte, error) {
	query := `SELECT body FROM documents WHERE collection = $1 AND id = $2`
	if s.inTx {
		query += ` FOR UPDATE`
	}
	var body []byte
	err := s.q.QueryRow(ctx, query, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return body, nil
}

// Save upsert; conserva seq del documento existente.
func (s *Store) Save(ctx context.Context, collection, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		collection, id, string(doc))
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", collection, id, err)
	}
	return nil
}

// Insert crea el documento; domain.ErrDuplicate si ya existe.
func (s *Store) Insert(ctx context.Context, collection, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	_, err := s.q.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(doc))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete elimina el documento.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// WithTx inicia una transacción, ejecuta fn con el almacén atado a la tx y hace Commit o Rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{pool: s.pool, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
