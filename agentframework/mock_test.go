// Copyright (c) Microsoft. All rights reserved.

package agentframework_test

import (
	"context"

	af "github.com/rishtawaliauntie/auntie/agentframework"
)

// mockClient streams a fixed list of updates, or fails to open.
type mockClient struct {
	updates  []af.ChatResponseUpdate
	openErr  error
	readErr  error
	received [][]af.Message
}

func (m *mockClient) StreamResponse(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	m.received = append(m.received, msgs)
	if m.openErr != nil {
		return nil, m.openErr
	}
	return af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		for _, u := range m.updates {
			select {
			case ch <- u:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return m.readErr
	}), nil
}

func deltas(ds ...string) []af.ChatResponseUpdate {
	out := make([]af.ChatResponseUpdate, len(ds))
	for i, d := range ds {
		out[i] = af.ChatResponseUpdate{Delta: d}
	}
	return out
}
