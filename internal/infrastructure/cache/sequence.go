package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.RevisionSequence = (*Sequence)(nil)

// seedScript sube el contador a ARGV[1] solo si está por debajo.
var seedScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local min = tonumber(ARGV[1])
if cur < min then
	redis.call('SET', KEYS[1], min)
	return min
end
return cur
`)

// Sequence contador de revisiones compartido entre instancias (INCR atómico).
type Sequence struct {
	client *redis.Client
	key    string
}

// NewSequence construye el contador sobre key.
func NewSequence(client *redis.Client, key string) *Sequence {
	return &Sequence{client: client, key: key}
}

// Next incrementa y devuelve el contador.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: incr %s: %w", s.key, err)
	}
	return n, nil
}

// Seed garantiza que el contador sea al menos min.
func (s *Sequence) Seed(ctx context.Context, min int64) error {
	if err := seedScript.Run(ctx, s.client, []string{s.key}, min).Err(); err != nil {
		return fmt.Errorf("cache: seed %s: %w", s.key, err)
	}
	return nil
}
