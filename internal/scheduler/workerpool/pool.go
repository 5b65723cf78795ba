// Package workerpool implements the scheduler's CPU-offload primitive: a
// bounded pool of goroutines that run a synchronous operator call racing a
// deadline timer. A worker whose deadline fires (or whose parent context is
// cancelled by a sibling failure) is never killed — it runs to completion
// and its result is discarded, matching the no-preemption rule for
// CPU-bound work.
package workerpool

import (
	"context"
	"time"

	"github.com/smilemakc/rankcore/internal/engineerr"
	"github.com/smilemakc/rankcore/internal/rowset"
)

// Pool bounds the number of concurrently running offloaded calls.
type Pool struct {
	sem chan struct{}
}

// New returns a Pool that allows up to capacity concurrent offloaded calls.
func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{sem: make(chan struct{}, capacity)}
}

type result struct {
	rs  *rowset.RowSet
	err error
}

// OffloadWithTimeout submits fn to the pool, races it against budget, and
// returns whichever finishes first: fn's own result, a DeadlineExceeded
// error on timeout, or a Cancelled error if ctx is done first. In the
// latter two cases the worker goroutine keeps running fn to completion in
// the background; its eventual result is simply never read.
func (p *Pool) OffloadWithTimeout(ctx context.Context, budget time.Duration, fn func() (*rowset.RowSet, error)) (*rowset.RowSet, error) {
	resultCh := make(chan result, 1)

	go func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		rs, err := fn()
		resultCh <- result{rs: rs, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-resultCh:
		return r.rs, r.err
	case <-timer.C:
		return nil, engineerr.New(engineerr.KindDeadlineExceeded, "operator exceeded its effective budget")
	case <-ctx.Done():
		return nil, engineerr.Wrap(engineerr.KindCancelled, ctx.Err(), "operator offload cancelled by peer failure")
	}
}
