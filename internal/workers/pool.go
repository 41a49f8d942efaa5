// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package workers runs request/response tasks on a fixed set of goroutines.
// Every task has an id, a deadline and, optionally, a Session so that results
// superseded by a newer request from the same caller can be discarded.
package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 3 * time.Second
	DefaultWorkers = 1
)

// Handler processes one request.
type Handler[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Observer is told how every awaited task ended.
type Observer interface {
	TaskCompleted(pool string, outcome Outcome)
}

// Options configures a Pool.
type Options struct {
	Name      string
	Workers   int
	Timeout   time.Duration
	QueueSize int
	Observer  Observer
}

type taskIDKey struct{}

// TaskID returns the id of the task whose handler received ctx, or 0.
func TaskID(ctx context.Context) uint64 {
	id, _ := ctx.Value(taskIDKey{}).(uint64)
	return id
}

type task[Req, Res any] struct {
	ctx    context.Context
	req    Req
	future *Future[Res]
}

// Pool dispatches requests to a fixed number of worker goroutines.
type Pool[Req, Res any] struct {
	name     string
	handler  Handler[Req, Res]
	timeout  time.Duration
	observer Observer

	tasks  chan task[Req, Res]
	quit   chan struct{}
	nextID atomic.Uint64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts opts.Workers goroutines running handler.
func NewPool[Req, Res any](opts Options, handler Handler[Req, Res]) *Pool[Req, Res] {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	queue := opts.QueueSize
	if queue < 0 {
		queue = 0
	}

	p := &Pool[Req, Res]{
		name:     opts.Name,
		handler:  handler,
		timeout:  timeout,
		observer: opts.Observer,
		tasks:    make(chan task[Req, Res], queue),
		quit:     make(chan struct{}),
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	log.Debug().Str("pool", p.name).Int("workers", workers).Dur("timeout", timeout).Msg("worker pool started")
	return p
}

// Name returns the pool name.
func (p *Pool[Req, Res]) Name() string {
	return p.name
}

// Timeout returns the per-task timeout.
func (p *Pool[Req, Res]) Timeout() time.Duration {
	return p.timeout
}

// Submit dispatches req and returns its Future. It does not wait for the result.
func (p *Pool[Req, Res]) Submit(ctx context.Context, req Req) *Future[Res] {
	return p.submit(ctx, nil, req)
}

// SubmitSession dispatches req on behalf of session. Any earlier task of the
// same session becomes stale.
func (p *Pool[Req, Res]) SubmitSession(ctx context.Context, session *Session, req Req) *Future[Res] {
	return p.submit(ctx, session, req)
}

func (p *Pool[Req, Res]) submit(ctx context.Context, session *Session, req Req) *Future[Res] {
	id := p.nextID.Add(1)
	f := newFuture[Res](p, id, session, time.Now().Add(p.timeout))
	if session != nil {
		session.advance(id)
	}

	select {
	case <-p.quit:
		f.resolve(*new(Res), ErrClosed)
		return f
	default:
	}

	timer := time.NewTimer(time.Until(f.deadline))
	defer timer.Stop()

	select {
	case p.tasks <- task[Req, Res]{ctx: ctx, req: req, future: f}:
	case <-p.quit:
		f.resolve(*new(Res), ErrClosed)
	case <-ctx.Done():
		f.resolve(*new(Res), ctx.Err())
	case <-timer.C:
		f.resolve(*new(Res), ErrTimeout)
	}
	return f
}

func (p *Pool[Req, Res]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case t := <-p.tasks:
			p.run(t)
		}
	}
}

func (p *Pool[Req, Res]) run(t task[Req, Res]) {
	f := t.future
	if f.isDone() {
		return
	}
	if f.session != nil && f.session.Latest() != f.id {
		// superseded while queued
		f.resolve(*new(Res), ErrStale)
		return
	}

	ctx, cancel := context.WithDeadline(context.WithoutCancel(t.ctx), f.deadline)
	defer cancel()
	ctx = context.WithValue(ctx, taskIDKey{}, f.id)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("pool", p.name).
				Uint64("task", f.id).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("worker task panicked")
			f.resolve(*new(Res), fmt.Errorf("%w: %v", ErrCrashed, r))
		}
	}()

	res, err := p.handler(ctx, t.req)
	f.resolve(res, err)
}

// Close stops the workers. Tasks still queued resolve with ErrClosed; Close
// waits for running tasks to return.
func (p *Pool[Req, Res]) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()

		for {
			select {
			case t := <-p.tasks:
				t.future.resolve(*new(Res), ErrClosed)
			default:
				log.Debug().Str("pool", p.name).Msg("worker pool stopped")
				return
			}
		}
	})
}

func (p *Pool[Req, Res]) observe(outcome Outcome) {
	if p.observer != nil {
		p.observer.TaskCompleted(p.name, outcome)
	}
}
