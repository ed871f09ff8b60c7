package cache

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

// NoopCache never stores anything; every Get is a miss.
type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

var _ portsrepo.Cache = (*NoopCache)(nil)

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}
