// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	af "github.com/rishtawaliauntie/auntie/agentframework"
)

// cognitiveServicesScope is the token scope for Azure-hosted OpenAI deployments.
const cognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

// transport opens streaming requests. Tests reach it through WithHTTPClient.
type transport interface {
	do(ctx context.Context, method, path string, body any) (*http.Response, error)
}

// endpoint is an OpenAI-compatible HTTP endpoint.
type endpoint struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	headers    map[string]string
	credential azcore.TokenCredential
}

func newEndpoint(apiKey string, cfg *clientConfig) *endpoint {
	e := &endpoint{
		client:     cfg.httpClient,
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		apiKey:     apiKey,
		headers:    cfg.headers,
		credential: cfg.azureCredential,
	}
	if e.client == nil {
		e.client = http.DefaultClient
	}
	if e.baseURL == "" {
		e.baseURL = DefaultBaseURL
	}
	return e
}

// do sends body as JSON and returns the response of a successful request.
// The caller owns the response body. Failures wrap [af.ErrChatClient].
func (e *endpoint) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", af.ErrChatClient, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", af.ErrChatClient, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if err := e.authorize(ctx, req); err != nil {
		return nil, err
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %w", af.ErrChatClient, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, decodeErrorBody(resp.StatusCode, raw)
	}
	return resp, nil
}

// authorize sets the Authorization header from the Azure credential or the
// API key. An explicit "api-key" header replaces bearer auth.
func (e *endpoint) authorize(ctx context.Context, req *http.Request) error {
	if e.credential != nil {
		token, err := e.credential.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{cognitiveServicesScope},
		})
		if err != nil {
			return fmt.Errorf("%w: %w: azure token: %w", af.ErrChatClient, af.ErrAuth, err)
		}
		slog.DebugContext(ctx, "using Azure AD token", "expires_on", token.ExpiresOn)
		req.Header.Set("Authorization", "Bearer "+token.Token)
		return nil
	}
	if _, ok := e.headers["api-key"]; ok {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	return nil
}

// apiError is the error object of an error response body or a stream error
// event. Gemini sends a numeric code and a status name; OpenAI a string code.
type apiError struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Code    json.RawMessage `json:"code"`
}

func (a *apiError) code() string {
	if c := strings.Trim(string(a.Code), `"`); c != "" && c != "null" {
		return c
	}
	if a.Status != "" {
		return a.Status
	}
	return a.Type
}

// serviceError converts an in-stream error event. A numeric code is taken as
// the HTTP status.
func (a *apiError) serviceError() *af.ServiceError {
	status, _ := strconv.Atoi(strings.Trim(string(a.Code), `"`))
	return newServiceError(status, a.Message, a.code())
}

// decodeErrorBody turns an HTTP error body into a [af.ServiceError]. Bodies may
// be a single {"error": ...} object or, from Gemini, an array of them.
func decodeErrorBody(status int, raw []byte) error {
	type envelope struct {
		Error *apiError `json:"error"`
	}

	var one envelope
	if json.Unmarshal(raw, &one) != nil || one.Error == nil {
		var many []envelope
		if json.Unmarshal(raw, &many) == nil && len(many) > 0 {
			one = many[0]
		}
	}
	if one.Error == nil || one.Error.Message == "" {
		code := ""
		if one.Error != nil {
			code = one.Error.code()
		}
		return newServiceError(status, strings.TrimSpace(string(raw)), code)
	}
	return newServiceError(status, one.Error.Message, one.Error.code())
}

// newServiceError classifies status: 401/403 as auth, 400 as an invalid
// request, anything else as a service failure. All wrap [af.ErrChatClient].
func newServiceError(status int, msg, code string) *af.ServiceError {
	var kind error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = af.ErrAuth
	case http.StatusBadRequest:
		kind = af.ErrInvalidRequest
	default:
		kind = af.ErrService
	}
	return &af.ServiceError{
		StatusCode: status,
		Message:    msg,
		Code:       code,
		Err:        fmt.Errorf("%w: %w", af.ErrChatClient, kind),
	}
}
