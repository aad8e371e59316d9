// Copyright (c) Microsoft. All rights reserved.

package agentframework

import "strings"

// ChatResponseUpdate is a single chunk received during streaming from a [ChatClient].
//
// Delta is always set: chunks without text carry the empty string.
type ChatResponseUpdate struct {
	Delta        string
	Role         Role
	ResponseID   string
	ModelID      string
	FinishReason FinishReason

	// Raw holds the original provider-specific chunk, if any.
	Raw any
}

// JoinDeltas concatenates the deltas of updates in order.
func JoinDeltas(updates []ChatResponseUpdate) string {
	var b strings.Builder
	for _, u := range updates {
		b.WriteString(u.Delta)
	}
	return b.String()
}
