package builtin

import (
	"regexp"
	"strings"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// DefaultPolicyReasonCode is used for a rule that does not set its own
// reasonCode (spec.md §4.4).
const DefaultPolicyReasonCode uint32 = 700

// PolicyRule is one configured policy-pack rule. Contains and Regex are
// evaluated against inputValues[Arg]; a rule matches if Tool equals the
// request's tool name (case-insensitive) and either a Contains substring or
// a Regex pattern is found.
type PolicyRule struct {
	Tool       string
	Arg        string
	Contains   []string
	Regex      []string
	ReasonCode uint32
	Reason     string

	compiledRegex []*regexp.Regexp
}

// compile lazily compiles the rule's regex patterns. Invalid patterns are
// dropped rather than failing startup; a malformed rule should degrade, not
// take the whole policy pack down.
func (r *PolicyRule) compile() {
	if r.compiledRegex != nil || len(r.Regex) == 0 {
		return
	}
	r.compiledRegex = make([]*regexp.Regexp, 0, len(r.Regex))
	for _, pattern := range r.Regex {
		if re, err := regexp.Compile(pattern); err == nil {
			r.compiledRegex = append(r.compiledRegex, re)
		}
	}
}

// PolicyPackPlugin evaluates a configured set of tool+arg match rules.
type PolicyPackPlugin struct {
	Rules []*PolicyRule
}

func NewPolicyPack(rules []*PolicyRule) *PolicyPackPlugin {
	for _, r := range rules {
		r.compile()
	}
	return &PolicyPackPlugin{Rules: rules}
}

func (p *PolicyPackPlugin) Name() string { return NamePolicyPack }

func (p *PolicyPackPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	toolName := strings.ToLower(ctx.Request.ToolDefinition.Name)
	for _, rule := range p.Rules {
		if !strings.EqualFold(rule.Tool, toolName) {
			continue
		}
		value, ok := ctx.Request.InputValues[rule.Arg]
		if !ok {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		if !rule.matches(text) {
			continue
		}
		reasonCode := rule.ReasonCode
		if reasonCode == 0 {
			reasonCode = DefaultPolicyReasonCode
		}
		reason := rule.Reason
		if reason == "" {
			reason = "Matched a configured policy-pack rule"
		}
		return plugin.Block(reasonCode, reason, map[string]any{
			"plugin":         NamePolicyPack,
			"code":           "policy",
			"arg":            rule.Arg,
			"value":          truncateDetail(text),
			"ruleReasonCode": reasonCode,
		})
	}
	return plugin.Allow()
}

func (r *PolicyRule) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, substr := range r.Contains {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return true
		}
	}
	for _, re := range r.compiledRegex {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
