package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository registro de movimientos, solo anexar.
// No existe Update ni Delete: las correcciones son movimientos nuevos.
type StockMovementRepository interface {
	// Append devuelve domain.ErrDuplicate si el id ya existe.
	Append(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// All devuelve el registro completo en orden de inserción.
	All(ctx context.Context) ([]*entity.StockMovement, error)
}
