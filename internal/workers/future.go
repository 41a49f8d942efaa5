// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package workers

import (
	"context"
	"sync"
	"time"
)

type observer interface {
	observe(outcome Outcome)
}

// Future is the pending result of one submitted task.
type Future[Res any] struct {
	id       uint64
	session  *Session
	deadline time.Time
	pool     observer

	done        chan struct{}
	resolveOnce sync.Once
	res         Res
	err         error

	observeOnce sync.Once
}

func newFuture[Res any](pool observer, id uint64, session *Session, deadline time.Time) *Future[Res] {
	return &Future[Res]{
		id:       id,
		session:  session,
		deadline: deadline,
		pool:     pool,
		done:     make(chan struct{}),
	}
}

// ID returns the task id. Ids increase monotonically per pool.
func (f *Future[Res]) ID() uint64 {
	return f.id
}

func (f *Future[Res]) resolve(res Res, err error) {
	f.resolveOnce.Do(func() {
		f.res = res
		f.err = err
		close(f.done)
	})
}

func (f *Future[Res]) isDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await waits for the result. It returns ErrTimeout once the pool timeout has
// elapsed since submission, ErrStale when a newer task of the same session was
// submitted, ErrCrashed when the handler panicked and ctx.Err() when ctx ends
// first.
func (f *Future[Res]) Await(ctx context.Context) (Res, error) {
	res, err := f.await(ctx)
	f.observeOnce.Do(func() {
		if f.pool != nil {
			f.pool.observe(outcomeOf(err))
		}
	})
	return res, err
}

func (f *Future[Res]) await(ctx context.Context) (Res, error) {
	var zero Res

	timer := time.NewTimer(time.Until(f.deadline))
	defer timer.Stop()

	select {
	case <-f.done:
	case <-timer.C:
		// no-op when a result landed at the deadline
		f.resolve(zero, ErrTimeout)
		<-f.done
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	if f.session != nil && f.session.Latest() != f.id {
		return zero, ErrStale
	}
	if f.err != nil {
		return zero, f.err
	}
	return f.res, nil
}
