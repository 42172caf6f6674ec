package videosearch

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// flights runs at most one call per key. The call runs on a context detached
// from any single caller and is canceled only once every caller waiting on it
// has gone.
type flights struct {
	group singleflight.Group

	mu      sync.Mutex
	active  map[string]*flight
	counter uint64
}

type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// join registers a waiter on key's current flight, starting a new one if
// none is live
func (f *flights) join(ctx context.Context, key string) *flight {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active == nil {
		f.active = make(map[string]*flight)
	}
	fl, ok := f.active[key]
	if !ok {
		f.counter++
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		// A canceled flight may still be unwinding under the old generation
		fl = &flight{key: key + "#" + strconv.FormatUint(f.counter, 10), ctx: runCtx, cancel: cancel}
		f.active[key] = fl
	}
	fl.waiters++
	return fl
}

func (f *flights) leave(key string, fl *flight) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if f.active[key] == fl {
		delete(f.active, key)
	}
}

// waiting reports how many callers wait on key's live flight
func (f *flights) waiting(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fl, ok := f.active[key]; ok {
		return fl.waiters
	}
	return 0
}

// do runs fn once for all concurrent callers of key. Each caller returns when
// the result is ready or its own ctx ends, whichever is first.
func (f *flights) do(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, bool, error) {
	fl := f.join(ctx, key)
	defer f.leave(key, fl)

	ch := f.group.DoChan(fl.key, func() (interface{}, error) {
		return fn(fl.ctx)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}
