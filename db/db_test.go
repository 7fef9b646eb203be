package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func testProvider(dial dialFunc) *Provider {
	return &Provider{
		uri:  "mongodb://localhost:27017/test",
		dial: dial,
		disconnect: func(ctx context.Context, c *mongo.Client) error {
			return nil
		},
	}
}

func TestAcquireSingleFlight(t *testing.T) {
	var dials int32
	shared := &mongo.Client{}
	release := make(chan struct{})

	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		<-release // hold every caller in the same attempt
		return shared, nil
	})

	const n = 20
	clients := make([]*mongo.Client, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i], errs[i] = p.Acquire(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&dials))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Same(t, shared, clients[i])
	}

	// fast path afterwards, still no extra dial
	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.Same(t, shared, c)
	require.EqualValues(t, 1, atomic.LoadInt32(&dials))
}

func TestAcquireFailureClearsCache(t *testing.T) {
	var dials int32
	dialErr := errors.New("store unreachable")

	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return nil, dialErr
		}
		return &mongo.Client{}, nil
	})

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Acquire(context.Background())
		}(i)
	}
	wg.Wait()

	// every waiter of the first attempt sees the same error
	failures := 0
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			require.ErrorIs(t, errs[i], dialErr)
			failures++
		}
	}
	require.Greater(t, failures, 0)

	// failure did not poison the cache; the next call retries and succeeds
	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestAcquireContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		<-block
		return &mongo.Client{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReleaseIdempotent(t *testing.T) {
	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		return &mongo.Client{}, nil
	})

	require.NoError(t, p.Release(context.Background()))
	require.NoError(t, p.Release(context.Background()))
}

func TestReleaseDuringDialDisconnectsOrphan(t *testing.T) {
	gate := make(chan struct{})
	var dials, disconnects int32
	orphan := &mongo.Client{}

	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		<-gate
		return orphan, nil
	})
	p.disconnect = func(ctx context.Context, c *mongo.Client) error {
		require.Same(t, orphan, c)
		atomic.AddInt32(&disconnects, 1)
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		done <- err
	}()

	// wait for the attempt to register, then release it mid-dial
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.pending != nil
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Release(context.Background()))
	close(gate)

	require.ErrorIs(t, <-done, ErrReleased)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&disconnects) == 1
	}, time.Second, 5*time.Millisecond)

	// nothing cached; the next Acquire dials fresh
	_, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&dials))
}

func TestReleaseForcesRedial(t *testing.T) {
	var dials int32
	p := testProvider(func(ctx context.Context, uri string) (*mongo.Client, error) {
		atomic.AddInt32(&dials, 1)
		return &mongo.Client{}, nil
	})

	_, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(context.Background()))

	_, err = p.Acquire(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&dials))
}
