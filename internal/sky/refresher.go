package sky

import (
	"context"
	"sync"
)

// Refresher runs loads in the background and publishes their results to a
// Store. Starting a new refresh cancels the one in flight, so only the most
// recent load ever lands.
type Refresher struct {
	loader *Loader
	store  *Store

	mu     sync.Mutex
	ctx    context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc
	seq    uint64
	wg     sync.WaitGroup
}

// NewRefresher returns a refresher bound to ctx; cancelling ctx has the same
// effect as Close without waiting.
func NewRefresher(ctx context.Context, loader *Loader, store *Store) *Refresher {
	ctx, stop := context.WithCancel(ctx)
	return &Refresher{
		loader: loader,
		store:  store,
		ctx:    ctx,
		stop:   stop,
	}
}

// Refresh starts a new load, superseding any previous one.
func (r *Refresher) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx.Err() != nil {
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.ctx)
	r.cancel = cancel
	r.seq++
	seq := r.seq

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		res := r.loader.Load(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if seq != r.seq || ctx.Err() != nil {
			return
		}
		r.store.Set(res.Stars, res.Fallback)
	}()
}

// Close cancels any load in flight and waits for it to return.
func (r *Refresher) Close() {
	r.mu.Lock()
	r.stop()
	r.mu.Unlock()
	r.wg.Wait()
}
