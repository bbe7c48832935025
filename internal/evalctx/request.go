// Package evalctx builds the immutable per-request EvaluationContext that
// every plugin reads (spec.md §3, §4.2). It is constructed once before the
// pipeline runs and discarded when the request completes.
package evalctx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PlannerContext carries the planner-supplied framing for the tool call.
type PlannerContext struct {
	UserMessage string `json:"userMessage" validate:"required"`
}

// ToolDefinition names the tool the host agent wants to invoke.
type ToolDefinition struct {
	Name string `json:"name" validate:"required"`
}

// ConversationMetadata carries optional turn history; Sentra does not
// interpret it beyond making it available to plugins and external
// templates.
type ConversationMetadata struct {
	History []map[string]any `json:"history,omitempty"`
}

// Request is the validated input to the evaluation core. Unknown top-level
// fields are preserved in Raw so the external-HTTP plugin can template
// against the full original document (spec.md §3).
type Request struct {
	PlannerContext       PlannerContext        `json:"plannerContext" validate:"required"`
	ToolDefinition        ToolDefinition        `json:"toolDefinition" validate:"required"`
	InputValues           map[string]any        `json:"inputValues,omitempty"`
	ConversationMetadata *ConversationMetadata `json:"conversationMetadata,omitempty"`

	// Raw is the full decoded JSON document, including fields not named
	// above. The HTTP handler populates it from the original request body
	// so the external-HTTP plugin can template against it via
	// ${rawJson}, independent of the four fields Sentra itself binds.
	Raw map[string]any `json:"-"`
}

// BCC returns the raw bcc value from InputValues, if present.
func (r *Request) BCC() (any, bool) {
	if r.InputValues == nil {
		return nil, false
	}
	v, ok := r.InputValues["bcc"]
	return v, ok
}

// LowercasedScanText concatenates the user message, tool name, and a
// stringified form of every input value into a single lowercase string,
// built once per request so every text-scanning plugin reuses it
// (spec.md §3, §4.2).
func (r *Request) LowercasedScanText() string {
	var b strings.Builder
	b.WriteString(r.PlannerContext.UserMessage)
	b.WriteString(" ")
	b.WriteString(r.ToolDefinition.Name)
	for _, k := range sortedKeys(r.InputValues) {
		b.WriteString(" ")
		b.WriteString(stringifyValue(r.InputValues[k]))
	}
	return strings.ToLower(b.String())
}

// RawScanText is LowercasedScanText's case-preserving counterpart, used by
// plugins whose patterns are case-sensitive (e.g. the secrets plugin's
// AWS access-key regex).
func (r *Request) RawScanText() string {
	var b strings.Builder
	b.WriteString(r.PlannerContext.UserMessage)
	b.WriteString(" ")
	b.WriteString(r.ToolDefinition.Name)
	for _, k := range sortedKeys(r.InputValues) {
		b.WriteString(" ")
		b.WriteString(stringifyValue(r.InputValues[k]))
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic order keeps LowercasedScanText (and therefore
	// telemetry/diagnostics derived from it) stable across identical
	// requests, matching the idempotence invariant in spec.md §8.
	sort.Strings(keys)
	return keys
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
