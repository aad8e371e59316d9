// Copyright (c) Microsoft. All rights reserved.

// Package openai provides a [ChatClient] implementation for any endpoint
// speaking the OpenAI Chat Completions streaming protocol. The default
// endpoint is Gemini's OpenAI-compatible API.
//
// Create a client and pass it to [agentframework.NewAgent]:
//
//	client := openai.New(os.Getenv("GEMINI_API_KEY"),
//	    openai.WithModel("gemini-2.0-flash"),
//	)
//
//	agent := agentframework.NewAgent(client)
//
// The client only streams. Each server-sent chunk becomes one
// [agentframework.ChatResponseUpdate]; a missing or null
// choices[0].delta.content becomes the empty string. The client does not
// retry and enforces no timeout of its own.
//
// # Configuration
//
// Use functional options to configure the client:
//
//   - [WithModel]: set the default model
//   - [WithBaseURL]: override the API endpoint (e.g., OpenAI or Azure OpenAI)
//   - [WithHTTPClient]: provide a custom http.Client
//   - [WithHeaders]: add custom headers to every request
//   - [WithAzureCredential]: authenticate with Azure AD instead of an API key
//   - [WithStreamMiddleware]: wrap the stream handler
//
// # Testing
//
// The client uses an unexported transport interface internally.
// For testing, provide a mock http.Client via [WithHTTPClient]
// with a custom RoundTripper.
package openai
