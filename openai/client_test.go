// Copyright (c) Microsoft. All rights reserved.

package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	af "github.com/rishtawaliauntie/auntie/agentframework"
	"github.com/rishtawaliauntie/auntie/openai"
)

// mockTransportFunc is a RoundTripper that delegates to a function.
type mockTransportFunc func(*http.Request) (*http.Response, error)

func (f mockTransportFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newMockHTTPClient(fn func(*http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{Transport: mockTransportFunc(fn)}
}

func sseResponse(lines ...string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
		Body:       io.NopCloser(strings.NewReader(strings.Join(lines, "\n"))),
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func collect(t *testing.T, client *openai.Client) []af.ChatResponseUpdate {
	t.Helper()
	stream, err := client.StreamResponse(context.Background(),
		[]af.Message{af.NewSystemMessage("sys"), af.NewUserMessage("hi")},
		nil,
	)
	if err != nil {
		t.Fatalf("StreamResponse: %v", err)
	}
	defer stream.Close()

	updates, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return updates
}

func TestClient_StreamResponse(t *testing.T) {
	var reqBody map[string]any
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != "POST" {
			t.Errorf("method = %q", req.Method)
		}
		if req.URL.String() != openai.DefaultBaseURL+"/chat/completions" {
			t.Errorf("url = %q", req.URL.String())
		}
		if req.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("auth = %q", req.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(req.Body)
		json.Unmarshal(body, &reqBody)

		return sseResponse(
			`data: {"id":"chatcmpl-1","model":"gemini-2.0-flash","choices":[{"index":0,"delta":{"role":"assistant","content":"Hello"},"finish_reason":null}]}`,
			``,
			`data: {"id":"chatcmpl-1","model":"gemini-2.0-flash","choices":[{"index":0,"delta":{"content":", world!"},"finish_reason":null}]}`,
			``,
			`data: {"id":"chatcmpl-1","model":"gemini-2.0-flash","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			``,
			`data: [DONE]`,
			``,
		), nil
	})

	client := openai.New("test-key", openai.WithHTTPClient(httpClient))
	updates := collect(t, client)

	if reqBody["model"] != openai.DefaultModel {
		t.Errorf("model = %v", reqBody["model"])
	}
	if reqBody["stream"] != true {
		t.Errorf("stream = %v", reqBody["stream"])
	}
	msgs, _ := reqBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", reqBody["messages"])
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "sys" {
		t.Errorf("messages[0] = %v", first)
	}

	if len(updates) != 3 {
		t.Fatalf("updates = %d, want 3", len(updates))
	}
	if updates[0].Role != af.RoleAssistant {
		t.Errorf("[0].Role = %q", updates[0].Role)
	}
	if updates[0].Delta != "Hello" || updates[1].Delta != ", world!" || updates[2].Delta != "" {
		t.Errorf("deltas = %q %q %q", updates[0].Delta, updates[1].Delta, updates[2].Delta)
	}
	if updates[2].FinishReason != af.FinishReasonStop {
		t.Errorf("[2].FinishReason = %q", updates[2].FinishReason)
	}
	if af.JoinDeltas(updates) != "Hello, world!" {
		t.Errorf("joined = %q", af.JoinDeltas(updates))
	}
}

func TestClient_StreamResponse_MissingDeltasNormalized(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return sseResponse(
			`data: {"choices":[{"delta":{"content":"a"}}]}`,
			`data: {"choices":[{"delta":{"content":null}}]}`,
			`data: {"choices":[{"delta":{}}]}`,
			`data: {"choices":[]}`,
			`data:{"choices":[{"delta":{"content":"b"}}]}`,
			`: keep-alive comment`,
			`data: not json`,
		), nil
	})

	client := openai.New("k", openai.WithHTTPClient(httpClient))
	updates := collect(t, client)

	want := []string{"a", "", "", "", "b"}
	if len(updates) != len(want) {
		t.Fatalf("updates = %d, want %d", len(updates), len(want))
	}
	for i, w := range want {
		if updates[i].Delta != w {
			t.Errorf("[%d] = %q, want %q", i, updates[i].Delta, w)
		}
	}
}

func TestClient_StreamResponse_EndsWithoutDone(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return sseResponse(`data: {"choices":[{"delta":{"content":"only"}}]}`), nil
	})

	client := openai.New("k", openai.WithHTTPClient(httpClient))
	updates := collect(t, client)
	if len(updates) != 1 || updates[0].Delta != "only" {
		t.Errorf("updates = %+v", updates)
	}
}

func TestClient_StreamResponse_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"401 Unauthorized", 401, `{"error":{"message":"API key not valid","type":"authentication_error"}}`, af.ErrAuth},
		{"403 Forbidden", 403, `{"error":{"message":"denied"}}`, af.ErrAuth},
		{"400 Bad Request", 400, `{"error":{"message":"bad model","code":"invalid_model"}}`, af.ErrInvalidRequest},
		{"500 Server Error", 500, `upstream exploded`, af.ErrService},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})

			client := openai.New("bad-key", openai.WithHTTPClient(httpClient))
			_, err := client.StreamResponse(context.Background(),
				[]af.Message{af.NewUserMessage("hi")},
				nil,
			)
			if !errors.Is(err, tc.target) {
				t.Fatalf("err = %v, want %v", err, tc.target)
			}
			if !errors.Is(err, af.ErrChatClient) {
				t.Errorf("err = %v, want ErrChatClient in chain", err)
			}
			var svcErr *af.ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatal("expected ServiceError")
			}
			if svcErr.StatusCode != tc.status {
				t.Errorf("StatusCode = %d", svcErr.StatusCode)
			}
		})
	}
}

func TestClient_StreamResponse_TransportError(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	client := openai.New("k", openai.WithHTTPClient(httpClient))
	_, err := client.StreamResponse(context.Background(), []af.Message{af.NewUserMessage("hi")}, nil)
	if !errors.Is(err, af.ErrChatClient) {
		t.Fatalf("err = %v, want ErrChatClient", err)
	}
}

func TestClient_WithOptions(t *testing.T) {
	var gotURL, gotHeader, gotAuth string
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		gotHeader = req.Header.Get("X-Trace")
		gotAuth = req.Header.Get("Authorization")
		return sseResponse(`data: [DONE]`), nil
	})

	client := openai.New("test-key",
		openai.WithBaseURL("https://example.test/v1/"),
		openai.WithModel("gpt-4o-mini"),
		openai.WithHeaders(map[string]string{"X-Trace": "abc"}),
		openai.WithHTTPClient(httpClient),
	)
	if client.Model() != "gpt-4o-mini" {
		t.Errorf("Model = %q", client.Model())
	}
	collect(t, client)

	if gotURL != "https://example.test/v1/chat/completions" {
		t.Errorf("url = %q", gotURL)
	}
	if gotHeader != "abc" {
		t.Errorf("X-Trace = %q", gotHeader)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
}

func TestClient_ChatOptions_PassedThrough(t *testing.T) {
	var sentBody map[string]any
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		json.Unmarshal(body, &sentBody)
		return sseResponse(`data: [DONE]`), nil
	})

	temp := 0.3
	maxTok := 100
	client := openai.New("test-key", openai.WithHTTPClient(httpClient))

	stream, err := client.StreamResponse(context.Background(),
		[]af.Message{af.NewUserMessage("hi")},
		&af.ChatOptions{ModelID: "gemini-1.5-pro", Temperature: &temp, MaxTokens: &maxTok},
	)
	if err != nil {
		t.Fatal(err)
	}
	stream.Close()

	if sentBody["model"] != "gemini-1.5-pro" {
		t.Errorf("model = %v", sentBody["model"])
	}
	if sentBody["temperature"] != 0.3 {
		t.Errorf("temperature = %v", sentBody["temperature"])
	}
	if sentBody["max_tokens"] != float64(100) {
		t.Errorf("max_tokens = %v", sentBody["max_tokens"])
	}
}

type staticCredential struct{ token string }

func (c staticCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: c.token}, nil
}

func TestClient_AzureCredential(t *testing.T) {
	var gotAuth string
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return sseResponse(`data: [DONE]`), nil
	})

	client := openai.New("",
		openai.WithAzureCredential(staticCredential{token: "aad-token"}),
		openai.WithHTTPClient(httpClient),
	)
	collect(t, client)

	if gotAuth != "Bearer aad-token" {
		t.Errorf("auth = %q", gotAuth)
	}
}

func TestClient_StreamMiddleware(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return sseResponse(`data: {"choices":[{"delta":{"content":"x"}}]}`), nil
	})

	var calls int
	mw := func(next af.StreamHandler) af.StreamHandler {
		return func(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
			calls++
			return next(ctx, msgs, opts)
		}
	}

	client := openai.New("k", openai.WithHTTPClient(httpClient), openai.WithStreamMiddleware(mw))
	updates := collect(t, client)

	if calls != 1 {
		t.Errorf("middleware calls = %d", calls)
	}
	if len(updates) != 1 || updates[0].Delta != "x" {
		t.Errorf("updates = %+v", updates)
	}
}

func TestClient_StreamResponse_GeminiErrorArray(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(429, `[{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}]`), nil
	})

	client := openai.New("k", openai.WithHTTPClient(httpClient))
	_, err := client.StreamResponse(context.Background(), []af.Message{af.NewUserMessage("hi")}, nil)

	var svcErr *af.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want ServiceError", err)
	}
	if svcErr.StatusCode != 429 || svcErr.Message != "Resource has been exhausted" || svcErr.Code != "429" {
		t.Errorf("ServiceError = %+v", svcErr)
	}
	if !errors.Is(err, af.ErrService) {
		t.Errorf("err = %v, want ErrService", err)
	}
}

func TestClient_StreamResponse_ErrorEvent(t *testing.T) {
	httpClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return sseResponse(
			`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
			`data: {"error":{"message":"quota exceeded","code":"rate_limit"}}`,
			`data: not-json`,
			`data: [DONE]`,
		), nil
	})

	client := openai.New("k", openai.WithHTTPClient(httpClient))
	stream, err := client.StreamResponse(context.Background(), []af.Message{af.NewUserMessage("hi")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	updates, err := stream.Collect(context.Background())
	if len(updates) != 1 || updates[0].Delta != "Hel" {
		t.Errorf("updates = %+v", updates)
	}
	var svcErr *af.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want ServiceError", err)
	}
	if svcErr.Message != "quota exceeded" || svcErr.Code != "rate_limit" {
		t.Errorf("ServiceError = %+v", svcErr)
	}
	if !errors.Is(err, af.ErrService) {
		t.Errorf("err = %v, want ErrService", err)
	}
}

func TestClient_StreamResponse_CloseAbandonsConnection(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := openai.New("k", openai.WithBaseURL(srv.URL))
	stream, err := client.StreamResponse(context.Background(), []af.Message{af.NewUserMessage("hi")}, nil)
	if err != nil {
		t.Fatalf("StreamResponse: %v", err)
	}

	u, ok, err := stream.Next(context.Background())
	if err != nil || !ok || u.Delta != "hi" {
		t.Fatalf("first: %+v ok=%v err=%v", u, ok, err)
	}

	closed := make(chan struct{})
	go func() {
		stream.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked while the server held the connection open")
	}
}

func TestRunStreamed_CloseAbandonsConnection(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := openai.New("k",
		openai.WithBaseURL(srv.URL),
		openai.WithStreamMiddleware(af.LoggingMiddleware(nil)),
	)
	events, err := af.RunStreamed(af.NewAgent(client), "hi").StreamEvents(context.Background())
	if err != nil {
		t.Fatalf("StreamEvents: %v", err)
	}
	if ev, ok, err := events.Next(context.Background()); err != nil || !ok || ev.Data.Delta != "hi" {
		t.Fatalf("first: %+v ok=%v err=%v", ev, ok, err)
	}

	closed := make(chan struct{})
	go func() {
		events.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked while the server held the connection open")
	}
}
