package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) load(_ context.Context, id string) (modInfo, error) {
	l.calls++
	if l.err != nil {
		return modInfo{}, l.err
	}
	return modInfo{ID: id, Name: "mod " + id}, nil
}

func newTestReadThrough(loader *countingLoader, skip bool) *ReadThroughCache[string, modInfo, string] {
	cache := NewInMemoryCacheManager[string, modInfo]("test", DefaultExpiration, DefaultCleanupInterval)
	return NewReadThroughCache[string, modInfo, string](cache, loader.load, skip)
}

func TestReadThroughCache_Get_LoadsOnceThenHits(t *testing.T) {
	loader := &countingLoader{}
	rtc := newTestReadThrough(loader, false)

	first, err := rtc.Get(context.Background(), "k:1", "1", time.Minute)
	require.NoError(t, err)
	second, err := rtc.Get(context.Background(), "k:1", "1", time.Minute)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "mod 1", first.Name)
	require.Equal(t, 1, loader.calls)
}

func TestReadThroughCache_Get_DoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("upstream down")}
	rtc := newTestReadThrough(loader, false)

	_, err := rtc.Get(context.Background(), "k:1", "1", time.Minute)
	require.EqualError(t, err, "upstream down")

	loader.err = nil
	got, err := rtc.Get(context.Background(), "k:1", "1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)
	require.Equal(t, 2, loader.calls)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	loader := &countingLoader{}
	rtc := newTestReadThrough(loader, true)

	_, err := rtc.Get(context.Background(), "k", "1", time.Minute)
	require.NoError(t, err)
	_, err = rtc.GetWithRefresh(context.Background(), "k", "1", time.Minute)
	require.NoError(t, err)

	require.Equal(t, 2, loader.calls)
}

func TestReadThroughCache_NilCacheSkips(t *testing.T) {
	loader := &countingLoader{}
	rtc := NewReadThroughCache[string, modInfo, string](nil, loader.load, false)

	_, err := rtc.Get(context.Background(), "k", "1", time.Minute)
	require.NoError(t, err)
	_, err = rtc.Get(context.Background(), "k", "1", time.Minute)
	require.NoError(t, err)

	require.Equal(t, 2, loader.calls)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	loader := &countingLoader{}
	rtc := newTestReadThrough(loader, false)

	_, err := rtc.GetWithRefresh(context.Background(), "k", "7", time.Minute)
	require.NoError(t, err)
	got, err := rtc.GetWithRefresh(context.Background(), "k", "7", time.Minute)
	require.NoError(t, err)

	require.Equal(t, "7", got.ID)
	require.Equal(t, 1, loader.calls)
}
