package builtin

import (
	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// ReasonCodeSecrets is the fixed reason code for a secrets block (spec.md §4.4).
const ReasonCodeSecrets uint32 = 201

// SecretsPlugin blocks requests whose message or input values contain an
// AWS-style access key.
type SecretsPlugin struct{}

func NewSecrets() *SecretsPlugin { return &SecretsPlugin{} }

func (p *SecretsPlugin) Name() string { return NameSecrets }

func (p *SecretsPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	match := ctx.Matchers.AWSKeyRegex.FindString(ctx.RawText)
	if match == "" {
		return plugin.Allow()
	}
	return plugin.Block(ReasonCodeSecrets, "Detected an AWS-style access key", map[string]any{
		"plugin": NameSecrets,
		"code":   "aws_key",
		"detail": truncateDetail(match),
	})
}
