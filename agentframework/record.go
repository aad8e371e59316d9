// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"slices"
	"sync"
)

// Recorder remembers every item that flows through a wrapped [ResponseStream]
// so it can be replayed later. The wrapped stream keeps its single-pass
// contract; replays are new streams over the recorded items.
type Recorder[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewRecorder creates an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Wrap returns a stream that yields the same items as src, recording each one
// as it passes through.
func (r *Recorder[T]) Wrap(ctx context.Context, src *ResponseStream[T]) *ResponseStream[T] {
	return MapStream(ctx, src, func(v T) T {
		r.mu.Lock()
		r.items = append(r.items, v)
		r.mu.Unlock()
		return v
	})
}

// Items returns a copy of the items recorded so far.
func (r *Recorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Replay returns a new stream over the items recorded so far.
func (r *Recorder[T]) Replay(ctx context.Context) *ResponseStream[T] {
	items := r.Items()
	return NewResponseStream(ctx, func(ctx context.Context, ch chan<- T) error {
		for _, v := range items {
			select {
			case ch <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
}
