package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*cache.ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewReportCache(client, time.Minute), mr
}

type summary struct {
	Total int `json:"total"`
}

func TestFetchJSON_UsaCacheHastaBump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return summary{Total: calls}, nil
	}

	key, err := c.BuildKey(ctx, "reports", "sales", "today")
	require.NoError(t, err)
	assert.Equal(t, "reports:sales:today:v1", key)

	var got summary
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 1, calls, "la segunda lectura sale de Redis")
	assert.Equal(t, 1, got.Total)

	require.NoError(t, c.Invalidate(ctx))
	key, err = c.BuildKey(ctx, "reports", "sales", "today")
	require.NoError(t, err)
	assert.Equal(t, "reports:sales:today:v2", key)
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, got.Total)
}

func TestFetchJSON_AplicaTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.FetchJSON(ctx, "k", new(summary), func(context.Context) (any, error) {
		return summary{Total: 1}, nil
	}))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestFetchJSON_ErrorDelLoader(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	err := c.FetchJSON(context.Background(), "k", new(summary), func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"), "los errores no se cachean")
}

func TestReportCache_NilEjecutaLoader(t *testing.T) {
	var c *cache.ReportCache
	ctx := context.Background()
	var got summary
	require.NoError(t, c.FetchJSON(ctx, "k", &got, func(context.Context) (any, error) { return summary{Total: 7}, nil }))
	assert.Equal(t, 7, got.Total)
	assert.NoError(t, c.Invalidate(ctx))
	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)
}

func TestFetchJSON_RedisCaidoNoRompeReporte(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	var got summary
	err := c.FetchJSON(context.Background(), "k", &got, func(context.Context) (any, error) { return summary{Total: 3}, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
}
