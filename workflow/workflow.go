// Copyright (c) Microsoft. All rights reserved.

// Package workflow runs a matchmaking submission: it streams the model's reply
// to a [Display], then sends WhatsApp confirmations to the submitter and the
// admin.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	af "github.com/rishtawaliauntie/auntie/agentframework"
	"github.com/rishtawaliauntie/auntie/messaging"
)

const (
	// AgentName and AgentInstructions describe the matchmaking agent.
	AgentName         = "Matchmaker Auntie"
	AgentInstructions = "You are a matchmaking assistant. Collect user details and help connect them on WhatsApp."
)

// NewAgent builds the matchmaking agent carrying the WhatsApp tool.
func NewAgent(client af.ChatClient, tool *messaging.WhatsAppTool) *af.Agent {
	opts := []af.AgentOption{
		af.WithName(AgentName),
		af.WithInstructions(AgentInstructions),
	}
	if tool != nil {
		opts = append(opts, af.WithTools(tool))
	}
	return af.NewAgent(client, opts...)
}

// Notifier sends a WhatsApp message. [*messaging.WhatsAppTool] implements it.
type Notifier interface {
	Send(ctx context.Context, in messaging.WhatsAppMessageInput) messaging.Result
}

// Workflow runs submissions against one agent. Runs share nothing; the same
// Workflow may run any number of submissions.
type Workflow struct {
	Agent       *af.Agent
	Notifier    Notifier
	AdminNumber string
	Logger      *slog.Logger
}

// Outcome records what a completed run did.
type Outcome struct {
	RunID       string
	Response    string
	UserResult  messaging.Result
	AdminResult messaging.Result
	States      []State
}

// Run processes sub. The chat stream is consumed fully before any message is
// sent. Notification failures are logged and recorded in the Outcome; only a
// chat stream failure is returned, and then no messages are sent.
func (w *Workflow) Run(ctx context.Context, sub Submission, display Display) (*Outcome, error) {
	if display == nil {
		display = NopDisplay{}
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if w.Agent == nil {
		return nil, errors.New("workflow: agent is nil")
	}

	out := &Outcome{RunID: uuid.NewString(), States: []State{StateIdle}}
	logger = logger.With("run_id", out.RunID)
	enter := func(s State) {
		out.States = append(out.States, s)
		logger.DebugContext(ctx, "workflow state", "state", s.String())
	}

	enter(StateSubmitted)
	logger.InfoContext(ctx, "submission received", "name", sub.Name, "age", sub.Age)

	enter(StateStreaming)
	display.Status(StatusInfo, StatusThinking)
	response, err := w.stream(ctx, sub, display)
	out.Response = response
	if err != nil {
		logger.ErrorContext(ctx, "chat stream failed", "error", err)
		return out, err
	}

	enter(StateNotifyingUser)
	display.Status(StatusInfo, StatusSendingUser)
	out.UserResult = w.notify(ctx, logger, "user", sub.Phone, UserConfirmation(sub))

	enter(StateNotifyingAdmin)
	out.AdminResult = w.notify(ctx, logger, "admin", w.AdminNumber, AdminNotification(sub))

	enter(StateComplete)
	display.Status(StatusSuccess, StatusComplete)
	logger.InfoContext(ctx, "submission complete",
		"user_sent", out.UserResult.OK(),
		"admin_sent", out.AdminResult.OK(),
	)
	return out, nil
}

func (w *Workflow) stream(ctx context.Context, sub Submission, display Display) (string, error) {
	events, err := af.RunStreamed(w.Agent, Prompt(sub)).StreamEvents(ctx)
	if err != nil {
		return "", err
	}
	defer events.Close()

	var full strings.Builder
	for {
		ev, ok, err := events.Next(ctx)
		if err != nil {
			return full.String(), err
		}
		if !ok {
			return full.String(), nil
		}
		if ev.Type != af.EventRawResponse {
			continue
		}
		full.WriteString(ev.Data.Delta)
		display.Response(full.String())
	}
}

func (w *Workflow) notify(ctx context.Context, logger *slog.Logger, who, to, body string) messaging.Result {
	if w.Notifier == nil {
		res := messaging.Result{To: to, Err: errors.New("no notifier configured")}
		logger.WarnContext(ctx, "notification skipped", "recipient", who, "error", res.Err)
		return res
	}
	res := w.Notifier.Send(ctx, messaging.WhatsAppMessageInput{To: to, Message: body})
	if !res.OK() {
		logger.WarnContext(ctx, "notification failed", "recipient", who, "result", res.String())
	}
	return res
}
