package repository

import "context"

// Nombres de colección del almacén de documentos.
const (
	CollectionWarehouses = "warehouses"
	CollectionItems      = "inventoryItems"
	CollectionMovements  = "stockMovements"
	CollectionRevisions  = "inventoryRevisions"
)

// DocumentStore puerto genérico de persistencia por colecciones de documentos JSON.
// GetAll devuelve los documentos en orden de primera inserción.
// GetByID devuelve nil, nil si el documento no existe.
// Save es un upsert por id; un id vacío devuelve domain.ErrMissingID.
// Insert solo crea: si el id ya existe devuelve domain.ErrDuplicate (registro solo anexar).
type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([][]byte, error)
	GetByID(ctx context.Context, collection, id string) ([]byte, error)
	Save(ctx context.Context, collection, id string, doc []byte) error
	Insert(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	Transactor
}

// Transactor ejecuta fn dentro de una transacción; tx es un DocumentStore
// atado a ella. Si fn devuelve error no se persiste nada.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx DocumentStore) error) error
}
