// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"fmt"
)

// EventType discriminates [StreamEvent] values.
type EventType string

// EventRawResponse is the only event type: a raw text delta from the model.
const EventRawResponse EventType = "raw_response_event"

// TextDelta carries one incremental fragment of generated text.
type TextDelta struct {
	Delta string
}

// StreamEvent is a single event published by [RunResult.StreamEvents].
// Completion is signalled by the stream ending, not by an event.
type StreamEvent struct {
	Type EventType
	Data TextDelta
}

// RunResult is a pending streamed run of an [Agent] over a single user input.
// Nothing is sent until [RunResult.StreamEvents] is called.
type RunResult struct {
	agent *Agent
	input string
	opts  *ChatOptions
}

// RunStreamed prepares a streamed run of agent over input.
func RunStreamed(agent *Agent, input string) *RunResult {
	return &RunResult{agent: agent, input: input}
}

// WithOptions sets per-run [ChatOptions].
func (r *RunResult) WithOptions(opts *ChatOptions) *RunResult {
	r.opts = opts
	return r
}

// Messages returns the conversation the run sends: the agent's system
// message followed by the user input.
func (r *RunResult) Messages() []Message {
	return []Message{
		r.agent.SystemMessage(),
		NewUserMessage(r.input),
	}
}

// StreamEvents opens the chat stream and returns one [StreamEvent] per chunk
// in generation order. Errors opening or reading the stream are returned
// unrecovered.
func (r *RunResult) StreamEvents(ctx context.Context) (*ResponseStream[StreamEvent], error) {
	updates, err := r.agent.client.StreamResponse(ctx, r.Messages(), r.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	return MapStream(ctx, updates, func(u ChatResponseUpdate) StreamEvent {
		return StreamEvent{
			Type: EventRawResponse,
			Data: TextDelta{Delta: u.Delta},
		}
	}), nil
}
