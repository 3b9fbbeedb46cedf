package memory

import (
	"context"
	"sync/atomic"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.RevisionSequence = (*Sequence)(nil)

// Sequence contador de revisiones en proceso.
type Sequence struct {
	n atomic.Int64
}

// NewSequence crea un contador en cero.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next incrementa y devuelve el contador.
func (s *Sequence) Next(_ context.Context) (int64, error) {
	return s.n.Add(1), nil
}

// Seed sube el contador a min si está por debajo.
func (s *Sequence) Seed(_ context.Context, min int64) error {
	for {
		cur := s.n.Load()
		if cur >= min || s.n.CompareAndSwap(cur, min) {
			return nil
		}
	}
}
