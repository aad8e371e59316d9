// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"maps"

	"github.com/google/uuid"
)

// Agent is an immutable descriptor bundling a name, system instructions, a
// [ChatClient] and a registry of tools keyed by name.
//
// Create one with [NewAgent] and functional options:
//
//	agent := agentframework.NewAgent(client,
//	    agentframework.WithName("Matchmaker Auntie"),
//	    agentframework.WithInstructions("You are a matchmaking assistant."),
//	    agentframework.WithTools(whatsappTool),
//	)
//
// The agent does not drive tool execution. The registry is populated but the
// streaming path in [RunResult.StreamEvents] never reads it.
type Agent struct {
	id           string
	name         string
	instructions string
	client       ChatClient
	tools        map[string]Tool
}

// AgentOption configures an [Agent] via [NewAgent].
type AgentOption func(*Agent)

// WithName sets the agent's display name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.name = name }
}

// WithInstructions sets the system instructions for the agent.
func WithInstructions(instructions string) AgentOption {
	return func(a *Agent) { a.instructions = instructions }
}

// WithTools registers tools by name. A later tool with the same name replaces
// an earlier one.
func WithTools(tools ...Tool) AgentOption {
	return func(a *Agent) {
		for _, t := range tools {
			a.tools[t.Name()] = t
		}
	}
}

// NewAgent creates an Agent with the given [ChatClient] and options.
func NewAgent(client ChatClient, opts ...AgentOption) *Agent {
	a := &Agent{
		id:     uuid.NewString(),
		client: client,
		tools:  make(map[string]Tool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Instructions returns the agent's system instructions.
func (a *Agent) Instructions() string { return a.instructions }

// Client returns the chat client the agent streams from.
func (a *Agent) Client() ChatClient { return a.client }

// Tools returns a copy of the tool registry.
func (a *Agent) Tools() map[string]Tool {
	return maps.Clone(a.tools)
}

// Tool looks up a registered tool by name.
func (a *Agent) Tool(name string) (Tool, bool) {
	t, ok := a.tools[name]
	return t, ok
}

// SystemMessage returns the system message derived from the agent's
// instructions. Callers prepend it to the conversation.
func (a *Agent) SystemMessage() Message {
	return NewSystemMessage(a.instructions)
}
