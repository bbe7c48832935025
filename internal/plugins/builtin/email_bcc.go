package builtin

import (
	"fmt"
	"strings"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// ReasonCodeEmailBCC is the fixed reason code for an email_bcc block
// (spec.md §4.4).
const ReasonCodeEmailBCC uint32 = 112

// EmailBCCPlugin blocks a mail-tool call whose bcc list contains an address
// outside the company domain.
type EmailBCCPlugin struct {
	MailTools     map[string]bool
	CompanyDomain string
}

func NewEmailBCC(mailTools []string, companyDomain string) *EmailBCCPlugin {
	set := make(map[string]bool, len(mailTools))
	for _, t := range mailTools {
		set[strings.ToLower(t)] = true
	}
	return &EmailBCCPlugin{MailTools: set, CompanyDomain: strings.ToLower(companyDomain)}
}

func (p *EmailBCCPlugin) Name() string { return NameEmailBCC }

func (p *EmailBCCPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	if !p.MailTools[strings.ToLower(ctx.Request.ToolDefinition.Name)] {
		return plugin.Allow()
	}
	bccValue, ok := ctx.Request.BCC()
	if !ok {
		return plugin.Allow()
	}
	for _, addr := range bccAddresses(bccValue) {
		if !strings.HasSuffix(strings.ToLower(addr), "@"+p.CompanyDomain) {
			return plugin.Block(ReasonCodeEmailBCC, "Detected an external bcc recipient", map[string]any{
				"plugin": NameEmailBCC,
				"code":   "bcc_external",
				"detail": truncateDetail(addr),
			})
		}
	}
	return plugin.Allow()
}

// bccAddresses normalizes the bcc input value, which may be a single
// string, a comma-separated string, or a JSON array of strings.
func bccAddresses(v any) []string {
	switch val := v.(type) {
	case string:
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}
