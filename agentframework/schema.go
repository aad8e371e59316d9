// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema builds an inline JSON Schema for T using reflection.
// Fields without `omitempty` are required; the `jsonschema` struct tag adds
// metadata such as description and enum.
func GenerateSchema[T any]() json.RawMessage {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(new(T))
	s.Version = ""
	b, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return b
}
