package external

import (
	"encoding/json"
	"strings"

	"github.com/N3mes1s/sentra/internal/evalctx"
)

// renderBody substitutes the fixed placeholder set into a request template
// (spec.md §4.5): `${userMessage}` and `${toolName}` are injected raw,
// `${userMessageJson}`/`${toolNameJson}` are JSON-string-literal escaped,
// `${inputJson}` is the compact JSON encoding of inputValues (spec.md §9
// Open Question: compact, not pretty-printed), and `${rawJson}` is the
// compact encoding of the full original request document, unknown
// top-level fields included, so the external plugin can template against
// more than the four fields Sentra itself interprets (spec.md §3). Unknown
// placeholders are left untouched.
func renderBody(template string, ctx *evalctx.Context) string {
	inputJSON, err := json.Marshal(ctx.Request.InputValues)
	if err != nil {
		inputJSON = []byte("{}")
	}
	userMessageJSON, err := json.Marshal(ctx.Request.PlannerContext.UserMessage)
	if err != nil {
		userMessageJSON = []byte(`""`)
	}
	toolNameJSON, err := json.Marshal(ctx.Request.ToolDefinition.Name)
	if err != nil {
		toolNameJSON = []byte(`""`)
	}
	rawJSON := []byte("{}")
	if ctx.Request.Raw != nil {
		if b, err := json.Marshal(ctx.Request.Raw); err == nil {
			rawJSON = b
		}
	}

	replacer := strings.NewReplacer(
		"${userMessage}", ctx.Request.PlannerContext.UserMessage,
		"${toolName}", ctx.Request.ToolDefinition.Name,
		"${inputJson}", string(inputJSON),
		"${userMessageJson}", string(userMessageJSON),
		"${toolNameJson}", string(toolNameJSON),
		"${rawJson}", string(rawJSON),
	)
	return replacer.Replace(template)
}
