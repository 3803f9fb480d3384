package environment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Identifier is the outcome of reading the optional "id" from an inline
// argument. Present is false whenever the argument could not provide a string
// id; Value is always trimmed.
type Identifier struct {
	Value   string
	Present bool
}

// NoIdentifier is the zero Identifier, used when a tag carries no usable id.
var NoIdentifier = Identifier{}

// ErrNoArgument reports an empty inline argument. It is the only reason
// ReadIdentifier returns that does not indicate an authoring mistake.
var ErrNoArgument = errors.New("environment: no inline argument")

// ParseIdentifier reads the id from a raw inline argument, degrading to
// NoIdentifier on any failure.
func ParseIdentifier(raw string) Identifier {
	id, _ := ReadIdentifier(raw)
	return id
}

// ReadIdentifier behaves like ParseIdentifier but also reports why the
// argument did not yield an id. The error is informational: callers render
// with the returned Identifier regardless.
func ReadIdentifier(raw string) (Identifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NoIdentifier, ErrNoArgument
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return NoIdentifier, fmt.Errorf("environment: inline argument is not a JSON object: %w", err)
	}
	if fields == nil {
		return NoIdentifier, errors.New("environment: inline argument is null")
	}

	rawID, ok := fields["id"]
	if !ok {
		return NoIdentifier, errors.New("environment: inline argument has no id")
	}

	// json.Unmarshal accepts null for a string target; an id of null is not a string.
	var value string
	if string(rawID) == "null" {
		return NoIdentifier, errors.New("environment: id must be a string, got null")
	}
	if err := json.Unmarshal(rawID, &value); err != nil {
		return NoIdentifier, fmt.Errorf("environment: id must be a string, got %s", string(rawID))
	}

	return Identifier{Value: strings.TrimSpace(value), Present: true}, nil
}
