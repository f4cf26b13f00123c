package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"blogapi/pkg/circuitbreaker"
	"blogapi/pkg/logger"
)

type FileStore interface {
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// GuardedStore fails fast while the wrapped store keeps failing, so uploads
// are not held up by an unreachable object store.
type GuardedStore struct {
	next    FileStore
	breaker *circuitbreaker.CircuitBreaker
	logger  logger.Logger
}

func NewGuardedStore(next FileStore, breaker *circuitbreaker.CircuitBreaker, logger logger.Logger) *GuardedStore {
	return &GuardedStore{
		next:    next,
		breaker: breaker,
		logger:  logger,
	}
}

func (g *GuardedStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	var url string
	err := g.breaker.Execute(func() error {
		saved, err := g.next.Save(ctx, name, content)
		url = saved
		return err
	})
	if err != nil {
		return "", g.unavailable(ctx, "save", err)
	}
	return url, nil
}

func (g *GuardedStore) Remove(ctx context.Context, url string) error {
	err := g.breaker.Execute(func() error {
		return g.next.Remove(ctx, url)
	})
	if err != nil {
		return g.unavailable(ctx, "remove", err)
	}
	return nil
}

func (g *GuardedStore) unavailable(ctx context.Context, op string, err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		g.logger.WarnContext(ctx, "File storage call rejected", map[string]interface{}{
			"operation": op,
			"breaker":   g.breaker.Name(),
		})
		return fmt.Errorf("file storage unavailable: %w", err)
	}
	return err
}
