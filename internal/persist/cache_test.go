package persist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/persist"
	"github.com/rpggio/require/internal/repository"
	"github.com/rpggio/require/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type write struct {
	at    time.Duration
	value string
}

// recordingStore remembers every physical write and when it happened.
type recordingStore struct {
	*persist.MemoryStore
	clock  *clock.Fake
	writes []write
}

func (s *recordingStore) Put(ctx context.Context, key string, value []byte) error {
	s.writes = append(s.writes, write{at: s.clock.Now().Sub(epoch), value: string(value)})
	return s.MemoryStore.Put(ctx, key, value)
}

func newHarness(t *testing.T) (*persist.Cache[int], *recordingStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(epoch)
	store := &recordingStore{MemoryStore: persist.NewMemoryStore(), clock: clk}
	cache := persist.NewCache[int](context.Background(), store, "counter", 0, nil, persist.Config{Clock: clk})
	return cache, store, clk
}

func TestCache_WriteInsideWindowIsDeferred(t *testing.T) {
	cache, store, clk := newHarness(t)

	cache.Set(1)
	require.Equal(t, []write{{0, "1"}}, store.writes)
	require.Equal(t, persist.StatePersisted, cache.State())

	clk.Advance(50 * time.Millisecond)
	cache.Set(2)
	require.Len(t, store.writes, 1)
	require.Equal(t, persist.StateDirty, cache.State())
	require.Equal(t, 2, cache.Get())

	clk.Advance(149 * time.Millisecond)
	require.Len(t, store.writes, 1)

	clk.Advance(time.Millisecond)
	require.Equal(t, []write{{0, "1"}, {200 * time.Millisecond, "2"}}, store.writes)
	require.Equal(t, persist.StatePersisted, cache.State())
	require.Zero(t, clk.Pending())
}

func TestCache_WriteAfterWindowIsImmediate(t *testing.T) {
	cache, store, clk := newHarness(t)

	cache.Set(1)
	clk.Advance(200 * time.Millisecond)
	cache.Set(2)

	require.Equal(t, []write{{0, "1"}, {200 * time.Millisecond, "2"}}, store.writes)
	require.Zero(t, clk.Pending())
}

func TestCache_RearmsOnEveryPendingWrite(t *testing.T) {
	cache, store, clk := newHarness(t)

	cache.Set(1)
	clk.Advance(50 * time.Millisecond)
	cache.Set(2)
	clk.Advance(50 * time.Millisecond)
	cache.Set(3)
	require.Equal(t, 1, clk.Pending())

	clk.Advance(149 * time.Millisecond)
	require.Len(t, store.writes, 1)
	clk.Advance(time.Millisecond)
	require.Equal(t, []write{{0, "1"}, {250 * time.Millisecond, "3"}}, store.writes)
}

func TestCache_SteadyStreamWritesOncePerWindow(t *testing.T) {
	cache, store, clk := newHarness(t)

	for i := 1; i <= 10; i++ {
		cache.Set(i)
		clk.Advance(100 * time.Millisecond)
	}

	require.Equal(t, []write{
		{0, "1"},
		{200 * time.Millisecond, "3"},
		{400 * time.Millisecond, "5"},
		{600 * time.Millisecond, "7"},
		{800 * time.Millisecond, "9"},
	}, store.writes)
	require.Equal(t, persist.StateDirty, cache.State())

	clk.Advance(50 * time.Millisecond)
	require.Equal(t, write{1050 * time.Millisecond, "10"}, store.writes[len(store.writes)-1])
	require.Equal(t, persist.StatePersisted, cache.State())
	require.Zero(t, clk.Pending())
}

func TestCache_CloseFlushesPending(t *testing.T) {
	cache, store, clk := newHarness(t)

	cache.Set(1)
	clk.Advance(50 * time.Millisecond)
	cache.Set(2)

	require.NoError(t, cache.Close())
	require.Equal(t, []write{{0, "1"}, {50 * time.Millisecond, "2"}}, store.writes)
	require.Zero(t, clk.Pending())

	clk.Advance(time.Second)
	require.NoError(t, cache.Close())
	require.Len(t, store.writes, 2)
}

func TestCache_Update(t *testing.T) {
	cache, store, _ := newHarness(t)

	got := cache.Update(func(n int) int { return n + 5 })
	require.Equal(t, 5, got)
	require.Equal(t, []write{{0, "5"}}, store.writes)
}

func TestCache_LoadsStoredValue(t *testing.T) {
	store := persist.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "names", []byte(`["a","b"]`)))

	cache := persist.NewCache[[]string](context.Background(), store, "names", nil, nil, persist.Config{})
	require.Equal(t, []string{"a", "b"}, cache.Get())
	require.Equal(t, persist.StateIdle, cache.State())
}

func TestCache_ParseFailureFallsBackToDefault(t *testing.T) {
	store := persist.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "names", []byte(`{broken`)))
	reg := prometheus.NewRegistry()

	cache := persist.NewCache(context.Background(), store, "names", []string{"fallback"}, nil,
		persist.Config{Metrics: persist.NewMetrics(reg)})
	require.Equal(t, []string{"fallback"}, cache.Get())

	count, err := testutil.GatherAndCount(reg, "require_persist_parse_failures_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	raw, err := store.Get(context.Background(), "names")
	require.NoError(t, err)
	require.Equal(t, `{broken`, string(raw))
}

func TestCache_WriteFailureIsRetried(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := &mocks.KVStore{}
	store.On("Get", mock.Anything, "counter").Return(nil, repository.ErrNotFound)
	store.On("Put", mock.Anything, "counter", []byte("1")).Return(errors.New("disk full")).Once()
	store.On("Put", mock.Anything, "counter", []byte("1")).Return(nil).Once()

	cache := persist.NewCache[int](context.Background(), store, "counter", 0, nil, persist.Config{Clock: clk})
	cache.Set(1)
	require.Equal(t, persist.StateDirty, cache.State())

	clk.Advance(persist.DefaultWindow)
	require.Equal(t, persist.StatePersisted, cache.State())
	store.AssertExpectations(t)
}

func TestCache_ReadFailureUsesDefault(t *testing.T) {
	store := &mocks.KVStore{}
	store.On("Get", mock.Anything, "counter").Return(nil, errors.New("io"))

	cache := persist.NewCache[int](context.Background(), store, "counter", 7, nil, persist.Config{})
	require.Equal(t, 7, cache.Get())
}

func TestHub_FlushAll(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := &recordingStore{MemoryStore: persist.NewMemoryStore(), clock: clk}
	cfg := persist.Config{Clock: clk}
	a := persist.NewCache[int](context.Background(), store, "a", 0, nil, cfg)
	b := persist.NewCache[string](context.Background(), store, "b", "", nil, cfg)

	hub := persist.NewHub()
	hub.Register(a, b)

	a.Set(1)
	b.Set("x")
	clk.Advance(10 * time.Millisecond)
	a.Set(2)
	b.Set("y")
	require.Len(t, store.writes, 2)

	require.NoError(t, hub.FlushAll(context.Background()))
	require.Len(t, store.writes, 4)
	require.Zero(t, clk.Pending())

	require.NoError(t, hub.Close())
	require.Len(t, store.writes, 4)
}

func TestHub_FlushAllJoinsErrors(t *testing.T) {
	clk := clock.NewFake(epoch)
	store := &mocks.KVStore{}
	store.On("Get", mock.Anything, "k").Return(nil, repository.ErrNotFound)
	store.On("Put", mock.Anything, "k", mock.Anything).Return(nil).Once()
	store.On("Put", mock.Anything, "k", mock.Anything).Return(errors.New("disk full"))

	cache := persist.NewCache[int](context.Background(), store, "k", 0, nil, persist.Config{Clock: clk})
	cache.Set(1)
	cache.Set(2)

	hub := persist.NewHub()
	hub.Register(cache)
	require.Error(t, hub.FlushAll(context.Background()))
	require.Equal(t, persist.StateDirty, cache.State())
}

func TestCache_TryUpdateSkipsWriteOnError(t *testing.T) {
	cache, store, _ := newHarness(t)
	boom := errors.New("boom")

	got, err := cache.TryUpdate(func(n int) (int, error) { return n + 1, boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, got)
	require.Empty(t, store.writes)
	require.Equal(t, persist.StateIdle, cache.State())

	got, err = cache.TryUpdate(func(n int) (int, error) { return n + 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, got)
	require.Len(t, store.writes, 1)
}
