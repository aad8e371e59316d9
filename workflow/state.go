// Copyright (c) Microsoft. All rights reserved.

package workflow

// State is a step of a submission run.
type State int

const (
	StateIdle State = iota
	StateSubmitted
	StateStreaming
	StateNotifyingUser
	StateNotifyingAdmin
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateStreaming:
		return "streaming"
	case StateNotifyingUser:
		return "notifying_user"
	case StateNotifyingAdmin:
		return "notifying_admin"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}
