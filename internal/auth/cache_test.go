package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceCacheConstructsOnce(t *testing.T) {
	builds := 0
	cache := NewServiceCache(func(ctx context.Context, key string) (*Service, error) {
		builds++
		return &Service{}, nil
	})

	first, err := cache.Get(context.Background(), "primary")
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "primary")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, builds)
}

func TestServiceCacheKeyedByIdentifier(t *testing.T) {
	cache := NewServiceCache(func(ctx context.Context, key string) (*Service, error) {
		return &Service{}, nil
	})

	a, err := cache.Get(context.Background(), "a")
	require.NoError(t, err)
	b, err := cache.Get(context.Background(), "b")
	require.NoError(t, err)

	require.NotSame(t, a, b)
}

func TestServiceCacheInvalidate(t *testing.T) {
	builds := 0
	cache := NewServiceCache(func(ctx context.Context, key string) (*Service, error) {
		builds++
		return &Service{}, nil
	})

	first, err := cache.Get(context.Background(), "primary")
	require.NoError(t, err)

	cache.Invalidate("primary")

	second, err := cache.Get(context.Background(), "primary")
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.Equal(t, 2, builds)
}

func TestServiceCacheBuildErrorNotCached(t *testing.T) {
	fail := true
	cache := NewServiceCache(func(ctx context.Context, key string) (*Service, error) {
		if fail {
			return nil, errors.New("db unavailable")
		}
		return &Service{}, nil
	})

	_, err := cache.Get(context.Background(), "primary")
	require.Error(t, err)

	fail = false
	svc, err := cache.Get(context.Background(), "primary")
	require.NoError(t, err)
	require.NotNil(t, svc)
}
