package media

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunPool_BoundsConcurrency(t *testing.T) {
	var (
		inFlight atomic.Int32
		peak     atomic.Int32
		mu       sync.Mutex
		done     []int
	)

	RunPool(context.Background(), 5, 2,
		func(ctx context.Context, i int) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		},
		func(i int) {
			mu.Lock()
			done = append(done, i)
			mu.Unlock()
		},
	)

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, done)
}

func TestRunPool_MoreWorkersThanItems(t *testing.T) {
	var calls atomic.Int32
	RunPool(context.Background(), 3, 50, func(ctx context.Context, i int) { calls.Add(1) }, nil)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunPool_Empty(t *testing.T) {
	called := false
	RunPool(context.Background(), 0, 4, func(ctx context.Context, i int) { called = true }, func(int) { called = true })
	assert.False(t, called)
}

func TestRunPool_ZeroWorkersStillRuns(t *testing.T) {
	var calls atomic.Int32
	RunPool(context.Background(), 4, 0, func(ctx context.Context, i int) { calls.Add(1) }, nil)
	assert.Equal(t, int32(4), calls.Load())
}
