// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package workers

import "errors"

var (
	// ErrTimeout is returned when a task does not finish within the pool timeout.
	ErrTimeout = errors.New("worker task timed out")
	// ErrStale is returned when a newer task on the same session superseded this one.
	ErrStale = errors.New("worker task superseded by a newer request")
	// ErrCrashed is returned when the handler panicked.
	ErrCrashed = errors.New("worker task crashed")
	// ErrClosed is returned for tasks submitted to, or pending in, a closed pool.
	ErrClosed = errors.New("worker pool closed")
)

// Outcome labels how a task ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeError   Outcome = "error"
	OutcomeTimeout Outcome = "timeout"
	OutcomeStale   Outcome = "stale"
	OutcomeCrashed Outcome = "crashed"
	OutcomeClosed  Outcome = "closed"
)

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrStale):
		return OutcomeStale
	case errors.Is(err, ErrCrashed):
		return OutcomeCrashed
	case errors.Is(err, ErrClosed):
		return OutcomeClosed
	}
	return OutcomeError
}
