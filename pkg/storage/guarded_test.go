package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/pkg/circuitbreaker"
	"blogapi/pkg/logger"
)

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Save(_ context.Context, name string, content io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "/files/" + name, nil
}

func (f *flakyStore) Remove(context.Context, string) error {
	f.calls++
	return f.err
}

func TestGuardedStorePassesThrough(t *testing.T) {
	next := &flakyStore{}
	store := NewGuardedStore(next, circuitbreaker.New(circuitbreaker.Settings{Name: "files"}), logger.NewNop())

	url, err := store.Save(context.Background(), "a.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/files/a.png", url)
	require.NoError(t, store.Remove(context.Background(), url))
	assert.Equal(t, 2, next.calls)
}

func TestGuardedStoreFailsFast(t *testing.T) {
	next := &flakyStore{err: errors.New("connection refused")}
	breaker := circuitbreaker.New(circuitbreaker.Settings{
		Name:             "files",
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
	})
	store := NewGuardedStore(next, breaker, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.Save(ctx, "a.png", strings.NewReader("png"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpen)
	}

	_, err := store.Save(ctx, "a.png", strings.NewReader("png"))
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)

	err = store.Remove(ctx, "/files/a.png")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)

	assert.Equal(t, 2, next.calls, "the open breaker does not reach the store")
}
