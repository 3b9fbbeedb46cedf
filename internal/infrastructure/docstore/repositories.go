package docstore

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository     = (*WarehouseRepo)(nil)
	_ repository.InventoryItemRepository = (*ItemRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.RevisionRepository      = (*RevisionRepo)(nil)
)

// WarehouseRepo almacenes sobre la colección warehouses.
type WarehouseRepo struct {
	c collection[entity.Warehouse]
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(store repository.DocumentStore) *WarehouseRepo {
	return &WarehouseRepo{c: collection[entity.Warehouse]{store: store, name: repository.CollectionWarehouses}}
}

func (r *WarehouseRepo) Save(ctx context.Context, w *entity.Warehouse) error {
	return r.c.save(ctx, w.ID, w)
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.c.get(ctx, id)
}

func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	return r.c.all(ctx)
}

// ItemRepo nomenclatura sobre la colección inventoryItems.
type ItemRepo struct {
	c collection[entity.InventoryItem]
}

// NewItemRepository construye el adaptador.
func NewItemRepository(store repository.DocumentStore) *ItemRepo {
	return &ItemRepo{c: collection[entity.InventoryItem]{store: store, name: repository.CollectionItems}}
}

func (r *ItemRepo) Save(ctx context.Context, it *entity.InventoryItem) error {
	return r.c.save(ctx, it.ID, it)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.c.get(ctx, id)
}

func (r *ItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.c.all(ctx)
}

// MovementRepo registro de movimientos sobre stockMovements. Solo anexa.
type MovementRepo struct {
	c collection[entity.StockMovement]
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(store repository.DocumentStore) *MovementRepo {
	return &MovementRepo{c: collection[entity.StockMovement]{store: store, name: repository.CollectionMovements}}
}

// Append inserta el movimiento; domain.ErrDuplicate si el id ya existe.
func (r *MovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	return r.c.insert(ctx, m.ID, m)
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.c.get(ctx, id)
}

// All devuelve el registro completo en orden de inserción.
func (r *MovementRepo) All(ctx context.Context) ([]*entity.StockMovement, error) {
	return r.c.all(ctx)
}

// RevisionRepo revisiones sobre inventoryRevisions.
type RevisionRepo struct {
	c collection[entity.InventoryRevision]
}

// NewRevisionRepository construye el adaptador.
func NewRevisionRepository(store repository.DocumentStore) *RevisionRepo {
	return &RevisionRepo{c: collection[entity.InventoryRevision]{store: store, name: repository.CollectionRevisions}}
}

func (r *RevisionRepo) Save(ctx context.Context, rev *entity.InventoryRevision) error {
	return r.c.save(ctx, rev.ID, rev)
}

func (r *RevisionRepo) GetByID(ctx context.Context, id string) (*entity.InventoryRevision, error) {
	return r.c.get(ctx, id)
}

func (r *RevisionRepo) List(ctx context.Context) ([]*entity.InventoryRevision, error) {
	return r.c.all(ctx)
}
