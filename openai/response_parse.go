// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	af "github.com/rishtawaliauntie/auntie/agentframework"
)

// chatCompletionChunk is a single SSE chunk in streaming mode.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
	Error   *apiError     `json:"error,omitempty"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// parseChunk converts a streaming chunk into a ChatResponseUpdate. Only the
// first choice is read; its content, or "" when absent, becomes the delta.
func parseChunk(chunk *chatCompletionChunk) *af.ChatResponseUpdate {
	update := &af.ChatResponseUpdate{
		ResponseID: chunk.ID,
		ModelID:    chunk.Model,
	}

	if len(chunk.Choices) > 0 {
		c := chunk.Choices[0]

		if c.Delta.Role != "" {
			update.Role = af.Role(c.Delta.Role)
		}

		if c.FinishReason != nil {
			update.FinishReason = mapFinishReason(*c.FinishReason)
		}

		if c.Delta.Content != nil {
			update.Delta = *c.Delta.Content
		}
	}

	return update
}

func mapFinishReason(s string) af.FinishReason {
	switch s {
	case "stop":
		return af.FinishReasonStop
	case "length":
		return af.FinishReasonLength
	case "tool_calls":
		return af.FinishReasonToolCalls
	case "content_filter":
		return af.FinishReasonContentFilter
	default:
		return af.FinishReason(s)
	}
}
