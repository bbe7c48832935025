package builtin

import (
	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// Name constants for every built-in plugin, reused by the pipeline
// assembler and the startup-validation invariant checks.
const (
	NameExfil       = "exfil"
	NameSecrets     = "secrets"
	NamePII         = "pii"
	NameEmailBCC    = "email_bcc"
	NameDomainBlock = "domain_block"
	NamePolicyPack  = "policy_pack"
)

// ReasonCodeExfil is the fixed reason code for an exfil block (spec.md §4.4).
const ReasonCodeExfil uint32 = 111

// ExfilPlugin blocks requests whose scannable text matches a fixed phrase
// set (e.g. "ignore previous instructions") via Aho-Corasick.
type ExfilPlugin struct{}

func NewExfil() *ExfilPlugin { return &ExfilPlugin{} }

func (p *ExfilPlugin) Name() string { return NameExfil }

func (p *ExfilPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	match, found := ctx.Matchers.Exfil.FirstMatch(ctx.LowercasedText)
	if !found {
		return plugin.Allow()
	}
	return plugin.Block(ReasonCodeExfil, "Detected a prompt-injection / exfiltration phrase", map[string]any{
		"plugin": NameExfil,
		"code":   "pattern",
		"detail": truncateDetail(match),
	})
}
