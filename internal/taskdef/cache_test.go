package taskdef

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int64
	defs  map[string]*Definition
	err   error
}

func (f *countingFetcher) FetchTask(ctx context.Context, taskID string) (*Definition, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.defs[taskID], nil
}

func TestCache_FetchesOncePerTask(t *testing.T) {
	f := &countingFetcher{defs: map[string]*Definition{
		"task-1": {SchedulerID: "sched-a"},
		"task-2": {SchedulerID: "sched-b"},
	}}
	c := NewCache(f)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		def, err := c.FetchTask(ctx, "task-1")
		require.NoError(t, err)
		require.Equal(t, "sched-a", def.SchedulerID)
	}
	def, err := c.FetchTask(ctx, "task-2")
	require.NoError(t, err)
	require.Equal(t, "sched-b", def.SchedulerID)

	require.Equal(t, int64(2), f.calls.Load())
	require.Equal(t, 2, c.Len())
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	f := &countingFetcher{defs: map[string]*Definition{"task-1": {}}}
	c := NewCache(f)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			def, err := c.FetchTask(context.Background(), "task-1")
			require.NoError(t, err)
			require.NotNil(t, def)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), f.calls.Load())
}

func TestCache_NoNegativeCaching(t *testing.T) {
	f := &countingFetcher{err: errors.New("queue unavailable")}
	c := NewCache(f)
	ctx := context.Background()

	_, err := c.FetchTask(ctx, "task-1")
	require.Error(t, err)
	require.Equal(t, 0, c.Len())

	// The fetcher recovers; the next call retries instead of replaying the
	// cached failure.
	f.err = nil
	f.defs = map[string]*Definition{"task-1": {SchedulerID: "sched-a"}}
	def, err := c.FetchTask(ctx, "task-1")
	require.NoError(t, err)
	require.Equal(t, "sched-a", def.SchedulerID)
	require.Equal(t, int64(2), f.calls.Load())
}
