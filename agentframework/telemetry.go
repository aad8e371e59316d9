// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware returns a [StreamMiddleware] that logs chat streams using
// slog: when the stream opens, and when it ends with the number of chunks and
// characters received.
func LoggingMiddleware(logger *slog.Logger) StreamMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next StreamHandler) StreamHandler {
		return func(ctx context.Context, messages []Message, opts *ChatOptions) (*ResponseStream[ChatResponseUpdate], error) {
			start := time.Now()
			logger.InfoContext(ctx, "chat stream started",
				"message_count", len(messages),
			)

			src, err := next(ctx, messages, opts)
			if err != nil {
				logger.ErrorContext(ctx, "chat stream failed",
					"duration", time.Since(start),
					"error", err,
				)
				return nil, err
			}

			return NewResponseStream(ctx, func(ctx context.Context, ch chan<- ChatResponseUpdate) error {
				defer src.Close()
				var chunks, chars int
				for {
					u, ok, err := src.Next(ctx)
					if err != nil {
						logger.ErrorContext(ctx, "chat stream failed",
							"duration", time.Since(start),
							"chunks", chunks,
							"error", err,
						)
						return err
					}
					if !ok {
						logger.InfoContext(ctx, "chat stream completed",
							"duration", time.Since(start),
							"chunks", chunks,
							"chars", chars,
						)
						return nil
					}
					chunks++
					chars += len(u.Delta)
					select {
					case ch <- u:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}), nil
		}
	}
}
