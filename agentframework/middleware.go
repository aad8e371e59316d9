// Copyright (c) Microsoft. All rights reserved.

package agentframework

import "context"

// StreamHandler is the function signature for opening a chat stream.
type StreamHandler func(ctx context.Context, messages []Message, opts *ChatOptions) (*ResponseStream[ChatResponseUpdate], error)

// StreamMiddleware wraps a [StreamHandler] to add cross-cutting behavior.
// Middleware should call next to continue the chain, or return early to short-circuit.
type StreamMiddleware func(next StreamHandler) StreamHandler

// ChainStreamMiddleware applies middleware in order (first in list = outermost wrapper).
func ChainStreamMiddleware(handler StreamHandler, mws ...StreamMiddleware) StreamHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
