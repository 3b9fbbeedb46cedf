// Package memory implementa el almacén de documentos en proceso (pruebas y desarrollo).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

type collection struct {
	docs  map[string][]byte
	order []string
}

// Store almacén en memoria. Conserva el orden de primera inserción por colección.
// Las transacciones se serializan entre sí y acumulan escrituras hasta el commit.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	cols map[string]*collection
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{cols: make(map[string]*collection)}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// GetAll devuelve los documentos en orden de inserción.
func (s *Store) GetAll(_ context.Context, name string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cols[name]
	if !ok {
		return nil, nil
	}
	out := make([][]byte, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.docs[id]))
	}
	return out, nil
}

// GetByID devuelve nil, nil si no existe.
func (s *Store) GetByID(_ context.Context, name, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cols[name]; ok {
		return clone(c.docs[id]), nil
	}
	return nil, nil
}

// Save inserta o reemplaza el documento. Reemplazar no cambia su posición.
func (s *Store) Save(_ context.Context, name, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(name, id, clone(doc))
	return nil
}

// Insert crea el documento; domain.ErrDuplicate si ya existe.
func (s *Store) Insert(_ context.Context, name, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cols[name]; ok {
		if _, exists := c.docs[id]; exists {
			return domain.ErrDuplicate
		}
	}
	s.saveLocked(name, id, clone(doc))
	return nil
}

// Delete elimina el documento; no falla si no existe.
func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(name, id)
	return nil
}

func (s *Store) saveLocked(name, id string, doc []byte) {
	c, ok := s.cols[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.cols[name] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}

func (s *Store) deleteLocked(name, id string) {
	c, ok := s.cols[name]
	if !ok {
		return
	}
	if _, exists := c.docs[id]; !exists {
		return
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (s *Store) exists(name, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cols[name]
	if !ok {
		return false
	}
	_, exists := c.docs[id]
	return exists
}

// WithTx ejecuta fn con un almacén que acumula escrituras; se aplican de una
// sola vez si fn no devuelve error.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.DocumentStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{parent: s, writes: make(map[string]map[string][]byte), added: make(map[string][]string)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// txStore escrituras pendientes de una transacción. Un valor nil en writes
// representa un borrado.
type txStore struct {
	parent *Store
	writes map[string]map[string][]byte
	added  map[string][]string
}

func (t *txStore) staged(name, id string) (doc []byte, ok bool) {
	if w, has := t.writes[name]; has {
		doc, ok = w[id]
	}
	return doc, ok
}

func (t *txStore) GetAll(_ context.Context, name string) ([][]byte, error) {
	var out [][]byte
	t.parent.mu.RLock()
	if c, ok := t.parent.cols[name]; ok {
		for _, id := range c.order {
			doc, ok := t.staged(name, id)
			switch {
			case !ok:
				out = append(out, clone(c.docs[id]))
			case doc != nil:
				out = append(out, clone(doc))
			}
		}
	}
	t.parent.mu.RUnlock()
	for _, id := range t.added[name] {
		if doc, _ := t.staged(name, id); doc != nil {
			out = append(out, clone(doc))
		}
	}
	return out, nil
}

func (t *txStore) GetByID(ctx context.Context, name, id string) ([]byte, error) {
	if doc, ok := t.staged(name, id); ok {
		return clone(doc), nil
	}
	return t.parent.GetByID(ctx, name, id)
}

func (t *txStore) Save(_ context.Context, name, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	w, ok := t.writes[name]
	if !ok {
		w = make(map[string][]byte)
		t.writes[name] = w
	}
	if _, seen := w[id]; !seen && !t.parent.exists(name, id) {
		t.added[name] = append(t.added[name], id)
	}
	if doc == nil {
		doc = []byte{}
	}
	w[id] = clone(doc)
	return nil
}

func (t *txStore) Insert(ctx context.Context, name, id string, doc []byte) error {
	if id == "" {
		return domain.ErrMissingID
	}
	existing, err := t.GetByID(ctx, name, id)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicate
	}
	return t.Save(ctx, name, id, doc)
}

func (t *txStore) Delete(_ context.Context, name, id string) error {
	w, ok := t.writes[name]
	if !ok {
		w = make(map[string][]byte)
		t.writes[name] = w
	}
	w[id] = nil
	return nil
}

// WithTx anidado reutiliza la transacción en curso.
func (t *txStore) WithTx(_ context.Context, fn func(tx repository.DocumentStore) error) error {
	return fn(t)
}

func (t *txStore) commit() {
	t.parent.mu.Lock()
	defer t.parent.mu.Unlock()
	for name, ids := range t.added {
		for _, id := range ids {
			if doc := t.writes[name][id]; doc != nil {
				t.parent.saveLocked(name, id, doc)
			}
		}
	}
	for name, w := range t.writes {
		for id, doc := range w {
			if doc == nil {
				t.parent.deleteLocked(name, id)
				continue
			}
			t.parent.saveLocked(name, id, doc)
		}
	}
}
