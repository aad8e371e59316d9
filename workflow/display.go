// Copyright (c) Microsoft. All rights reserved.

package workflow

// StatusLevel is the severity of a status line.
type StatusLevel string

const (
	StatusInfo    StatusLevel = "info"
	StatusSuccess StatusLevel = "success"
)

// Status texts shown while a submission runs.
const (
	StatusThinking    = "🧠 Auntie is thinking... Please wait!"
	StatusSendingUser = "📨 Sending confirmation to you..."
	StatusComplete    = "✅ Submission complete. WhatsApp messages sent!"
	ResponsePrefix    = "💬 "
)

// Display receives progress from a running [Workflow].
//
// Response is called with the full text accumulated so far, not the latest
// fragment, so implementations re-render rather than append.
type Display interface {
	Status(level StatusLevel, text string)
	Response(full string)
}

// NopDisplay discards all progress.
type NopDisplay struct{}

func (NopDisplay) Status(StatusLevel, string) {}
func (NopDisplay) Response(string)            {}
