// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	af "github.com/rishtawaliauntie/auntie/agentframework"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"
)

// clientConfig holds resolved configuration for the client.
type clientConfig struct {
	baseURL          string
	httpClient       *http.Client
	headers          map[string]string
	model            string
	azureCredential  azcore.TokenCredential
	streamMiddleware []af.StreamMiddleware
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithBaseURL overrides the API base URL (e.g., for OpenAI, Azure OpenAI or proxies).
// A trailing slash is ignored.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = headers }
}

// WithModel sets the default model for requests.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithAzureCredential enables Azure AD token authentication using the provided credential.
// When set, the client will obtain and refresh tokens automatically instead of using API keys.
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.azureCredential = cred }
}

// WithStreamMiddleware adds middleware to the stream pipeline.
// Middleware is applied in the order provided (first = outermost).
func WithStreamMiddleware(mw ...af.StreamMiddleware) Option {
	return func(c *clientConfig) { c.streamMiddleware = append(c.streamMiddleware, mw...) }
}
