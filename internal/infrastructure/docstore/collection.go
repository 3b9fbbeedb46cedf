// Package docstore adapta los puertos tipados del dominio sobre cualquier
// repository.DocumentStore, serializando las entidades como JSON.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// collection acceso tipado a una colección del almacén.
type collection[T any] struct {
	store repository.DocumentStore
	name  string
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	raw, err := c.store.GetByID(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return &v, nil
}

func (c collection[T]) all(ctx context.Context) ([]*T, error) {
	raws, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s[%d]: %w", c.name, i, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func (c collection[T]) save(ctx context.Context, id string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return c.store.Save(ctx, c.name, id, raw)
}

func (c collection[T]) insert(ctx context.Context, id string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return c.store.Insert(ctx, c.name, id, raw)
}
