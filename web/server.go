// Copyright (c) Microsoft. All rights reserved.

// Package web serves the matchmaking form and streams submission progress to
// the browser as server-sent events.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rishtawaliauntie/auntie/workflow"
)

const maxFormSize = 1 << 20

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Runner runs one submission. [*workflow.Workflow] implements it.
type Runner interface {
	Run(ctx context.Context, sub workflow.Submission, display workflow.Display) (*workflow.Outcome, error)
}

type pageData struct {
	Title      string
	Subtitle   string
	MinAge     int
	MaxAge     int
	DefaultAge int
	Genders    []string
}

// Server is the HTTP handler for the matchmaking site.
type Server struct {
	runner Runner
	logger *slog.Logger
	mux    *http.ServeMux
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a Server that runs submissions with runner.
func NewServer(runner Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, o := range opts {
		o(s)
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /submit", s.handleSubmit)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.InfoContext(r.Context(), "http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
		"remote", r.RemoteAddr,
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:      "💞 Rishta Wali Auntie",
		Subtitle:   "🧕 Find Your Perfect Match — The AI Way!",
		MinAge:     workflow.MinAge,
		MaxAge:     workflow.MaxAge,
		DefaultAge: workflow.DefaultAge,
		Genders:    workflow.Genders,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.ErrorContext(r.Context(), "render index", "error", err)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}
	sub := submissionFromForm(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	display := newSSEDisplay(w, s.logger)

	// The run outlives the request so both notifications go out even if the
	// browser leaves mid-stream.
	ctx := context.WithoutCancel(r.Context())
	if _, err := s.runner.Run(ctx, sub, display); err != nil {
		display.send("error", map[string]string{"text": err.Error()})
	}
	display.send("done", map[string]string{})
}

// submissionFromForm reads the form fields. Values are not validated; an
// unparseable age reads as zero.
func submissionFromForm(r *http.Request) workflow.Submission {
	age, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	return workflow.Submission{
		Name:       r.PostFormValue("name"),
		Age:        age,
		Gender:     r.PostFormValue("gender"),
		Profession: r.PostFormValue("profession"),
		Phone:      r.PostFormValue("phone"),
		About:      r.PostFormValue("about"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
