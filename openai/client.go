// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	af "github.com/rishtawaliauntie/auntie/agentframework"
)

// Client implements [agentframework.ChatClient] using the Chat Completions
// streaming API. Use [New] to create one.
type Client struct {
	tp      transport
	model   string
	handler af.StreamHandler
}

// Verify interface compliance at compile time.
var _ af.ChatClient = (*Client)(nil)

// New creates a [Client] with the given API key and options.
//
//	client := openai.New(os.Getenv("GEMINI_API_KEY"),
//	    openai.WithModel("gemini-2.0-flash"),
//	)
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.model == "" {
		cfg.model = DefaultModel
	}
	c := &Client{
		tp:    newEndpoint(apiKey, cfg),
		model: cfg.model,
	}
	c.handler = af.ChainStreamMiddleware(c.coreStream, cfg.streamMiddleware...)
	return c
}

// Model returns the default model identifier.
func (c *Client) Model() string { return c.model }

// StreamResponse sends a streaming chat completion request and returns
// a [ResponseStream] that yields one update per server-sent event.
func (c *Client) StreamResponse(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	return c.handler(ctx, messages, opts)
}

// coreStream is the base implementation called by the middleware chain.
func (c *Client) coreStream(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	req := buildRequest(messages, opts, c.model)

	slog.DebugContext(ctx, "chat completion request",
		"model", req.Model,
		"message_count", len(req.Messages),
	)

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}

	stream := af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		defer resp.Body.Close()
		// Closing the stream cancels ctx; closing the body unblocks a read
		// that is waiting on the server.
		stop := context.AfterFunc(ctx, func() { resp.Body.Close() })
		defer stop()

		err := parseSSEStream(ctx, resp.Body, ch)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	})

	return stream, nil
}

// parseSSEStream reads server-sent events from r and sends parsed updates to
// ch. It returns when the stream is exhausted ([DONE] or EOF), the context is
// cancelled, or an error occurs. An error event in the stream ends it with a
// [af.ServiceError].
func parseSSEStream(ctx context.Context, r io.Reader, ch chan<- af.ChatResponseUpdate) error {
	scanner := bufio.NewScanner(r)
	// Allow large SSE lines (some responses can be substantial).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		// SSE format: lines starting with "data:"
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)

		// Stream terminator.
		if data == "[DONE]" {
			return nil
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed chunks rather than aborting.
			slog.DebugContext(ctx, "skipping malformed chunk", "error", err)
			continue
		}

		if chunk.Error != nil {
			return chunk.Error.serviceError()
		}

		update := parseChunk(&chunk)
		update.Raw = &chunk

		select {
		case ch <- *update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read SSE stream: %v", af.ErrService, err)
	}

	return nil
}
