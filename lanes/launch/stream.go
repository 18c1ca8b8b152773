// Copyright 2025 The go-lanes Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrStreamClosed is returned by Submit after Wait has been called.
var ErrStreamClosed = errors.New("launch: stream closed")

// Stream is an ordered queue of dispatches bound to a context. Dispatches
// submitted to the same stream execute one at a time in submission order,
// mirroring the in-order queue semantics of device command streams.
//
// Cancellation is a host-side concern: a cancelled context prevents pending
// dispatches from starting, but a dispatch already running is never
// interrupted mid-flight (individual lanes run to completion).
//
// Submit and Wait may be called from different goroutines, but callers must
// stop submitting before calling Wait; a Submit racing Wait is rejected with
// ErrStreamClosed at best and is not a supported ordering.
type Stream struct {
	ctx    context.Context
	group  *errgroup.Group
	pool   *Pool
	closed atomic.Bool
}

// NewStream creates a stream that executes dispatches on pool.
// The context governs pending (not yet started) dispatches only.
func NewStream(ctx context.Context, pool *Pool) *Stream {
	group, ctx := errgroup.WithContext(ctx)
	// Limit 1 gives in-order, one-at-a-time execution.
	group.SetLimit(1)
	return &Stream{
		ctx:   ctx,
		group: group,
		pool:  pool,
	}
}

// Submit enqueues a dispatch of fn across l lanes. The dispatch runs
// asynchronously after all previously submitted dispatches complete;
// Submit itself blocks while an earlier dispatch is still running.
//
// Returns the context's error if the stream's context is already cancelled,
// or ErrStreamClosed after Wait.
func (s *Stream) Submit(l uint32, fn func(id uint32)) error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	s.group.Go(func() error {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		s.pool.Launch(l, fn)
		return nil
	})
	return nil
}

// Wait blocks until every submitted dispatch has completed and closes the
// stream. It returns the first cancellation error observed, if any; the
// dispatches themselves have no error channel.
func (s *Stream) Wait() error {
	s.closed.Store(true)
	return s.group.Wait()
}
