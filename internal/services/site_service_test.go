package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounterCache struct {
	values map[string]int64
	err    error
}

func (f *fakeCounterCache) Counter(_ context.Context, name string) (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	n, ok := f.values[name]
	return n, ok, nil
}

func (f *fakeCounterCache) SetCounter(_ context.Context, name string, value int64) error {
	if f.err != nil {
		return f.err
	}
	f.values[name] = value
	return nil
}

func TestSiteServiceCached_MissLoadsAndBackfills(t *testing.T) {
	fc := &fakeCounterCache{values: map[string]int64{}}
	s := &SiteService{Counters: fc}
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (int64, error) {
		loads++
		return 42, nil
	}

	n, err := s.cached(ctx, "post_count", load)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, 1, loads)
	assert.Equal(t, int64(42), fc.values["post_count"], "miss 后应回填缓存")

	// 第二次读命中缓存，不再回源
	n, err = s.cached(ctx, "post_count", load)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, 1, loads)
}

func TestSiteServiceCached_CacheErrorFallsThrough(t *testing.T) {
	fc := &fakeCounterCache{err: errors.New("redis down")}
	s := &SiteService{Counters: fc}

	n, err := s.cached(context.Background(), "post_count", func(context.Context) (int64, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n, "缓存故障时退化为直查")
}

func TestSiteServiceCached_NilCache(t *testing.T) {
	s := &SiteService{}

	n, err := s.cached(context.Background(), "post_count", func(context.Context) (int64, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
