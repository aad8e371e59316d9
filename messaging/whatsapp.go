// Copyright (c) Microsoft. All rights reserved.

// Package messaging provides the WhatsApp messaging tool the matchmaking agent
// carries. The tool never fails: every outcome is reported as a [Result].
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	af "github.com/rishtawaliauntie/auntie/agentframework"
	"github.com/rishtawaliauntie/auntie/twilio"
)

const (
	// ToolName is the name the tool registers under.
	ToolName = "send_whatsapp_message"

	// ToolDescription is the tool's human-readable description.
	ToolDescription = "Send a WhatsApp message using Twilio"

	// FailureMarker prefixes every failure description.
	FailureMarker = "❌ Error:"
)

// Sender delivers a message between two numbers. [*twilio.Client] implements it.
type Sender interface {
	Send(ctx context.Context, from, to, body string) (twilio.Receipt, error)
}

// WhatsAppMessageInput is the tool's input.
type WhatsAppMessageInput struct {
	To      string `json:"to" jsonschema:"required,description=Recipient phone number in international format"`
	Message string `json:"message" jsonschema:"required,description=Message body"`
}

// Result is the outcome of one send: a receipt on success or the error that
// stopped it.
type Result struct {
	To      string
	Receipt twilio.Receipt
	Err     error
}

// OK reports whether the message was accepted.
func (r Result) OK() bool { return r.Err == nil }

// String returns the human-readable outcome: "✅ WhatsApp message sent to
// <to>!" or [FailureMarker] followed by the error text.
func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %v", FailureMarker, r.Err)
	}
	return fmt.Sprintf("✅ WhatsApp message sent to %s!", r.To)
}

// WhatsAppTool sends WhatsApp messages from a fixed sender number.
type WhatsAppTool struct {
	sender Sender
	from   string
	logger *slog.Logger
}

var _ af.Tool = (*WhatsAppTool)(nil)

// NewWhatsAppTool creates the tool. from is the Twilio WhatsApp sender number.
func NewWhatsAppTool(sender Sender, from string, logger *slog.Logger) *WhatsAppTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsAppTool{sender: sender, from: from, logger: logger}
}

func (t *WhatsAppTool) Name() string        { return ToolName }
func (t *WhatsAppTool) Description() string { return ToolDescription }

// Parameters returns the JSON Schema of [WhatsAppMessageInput].
func (t *WhatsAppTool) Parameters() json.RawMessage {
	return af.GenerateSchema[WhatsAppMessageInput]()
}

// Send delivers in.Message to in.To. It does not return an error and
// recovers from panics in the sender; failures are carried in the Result.
func (t *WhatsAppTool) Send(ctx context.Context, in WhatsAppMessageInput) (res Result) {
	res.To = in.To
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
		if res.Err != nil {
			t.logger.WarnContext(ctx, "whatsapp message failed", "to", in.To, "error", res.Err)
		}
	}()

	if t.sender == nil {
		res.Err = fmt.Errorf("%w: no sender configured", af.ErrToolExecution)
		return res
	}
	res.Receipt, res.Err = t.sender.Send(ctx, t.from, in.To, in.Message)
	return res
}

// Call sends the message and returns the outcome text.
func (t *WhatsAppTool) Call(ctx context.Context, to, message string) string {
	return t.Send(ctx, WhatsAppMessageInput{To: to, Message: message}).String()
}

// Invoke decodes args and sends the message. The returned error is always nil;
// malformed arguments are reported in the result text.
func (t *WhatsAppTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var in WhatsAppMessageInput
	if err := json.Unmarshal(args, &in); err != nil {
		return Result{Err: &af.ToolError{
			ToolName: ToolName,
			Message:  "invalid arguments: " + err.Error(),
			Err:      af.ErrToolExecution,
		}}.String(), nil
	}
	return t.Send(ctx, in).String(), nil
}
