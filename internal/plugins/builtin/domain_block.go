package builtin

import (
	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/matcher"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// ReasonCodeDomainBlock is the fixed reason code for a domain_block block
// (spec.md §4.4).
const ReasonCodeDomainBlock uint32 = 113

// DomainBlockPlugin blocks requests whose scannable text mentions a
// configured blocklisted domain, matching on whole tokens (and their
// subdomains) so e.g. "notbad.com" never matches a "bad.com" entry.
type DomainBlockPlugin struct{}

func NewDomainBlock() *DomainBlockPlugin { return &DomainBlockPlugin{} }

func (p *DomainBlockPlugin) Name() string { return NameDomainBlock }

func (p *DomainBlockPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	if len(ctx.Matchers.DomainBlocklist) == 0 {
		return plugin.Allow()
	}
	for _, domain := range ctx.Matchers.DomainBlocklist {
		if matcher.ContainsDomainToken(ctx.LowercasedText, domain) {
			return plugin.Block(ReasonCodeDomainBlock, "Detected a blocklisted domain", map[string]any{
				"plugin": NameDomainBlock,
				"code":   "domain",
				"detail": truncateDetail(domain),
			})
		}
	}
	return plugin.Allow()
}
