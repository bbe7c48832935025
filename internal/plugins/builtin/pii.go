package builtin

import (
	"strings"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// ReasonCodePII is the fixed reason code for every pii block variant
// (spec.md §4.4).
const ReasonCodePII uint32 = 202

// PIIPlugin blocks requests that leak personally identifiable information:
// an email address outside the company domain, an international phone
// number, an IBAN, or a configured free-form keyword.
type PIIPlugin struct {
	CompanyDomain string
}

func NewPII(companyDomain string) *PIIPlugin {
	return &PIIPlugin{CompanyDomain: strings.ToLower(companyDomain)}
}

func (p *PIIPlugin) Name() string { return NamePII }

func (p *PIIPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	if email := p.externalEmail(ctx); email != "" {
		return p.block("email", "Detected an email address outside the company domain", email)
	}
	if phone := ctx.Matchers.IntlPhoneRegex.FindString(ctx.RawText); phone != "" {
		return p.block("phone", "Detected an international phone number", phone)
	}
	if iban := ctx.Matchers.IBANRegex.FindString(ctx.RawText); iban != "" {
		return p.block("iban", "Detected an IBAN", iban)
	}
	if kw, found := ctx.Matchers.PIIKeywords.FirstMatch(ctx.LowercasedText); found {
		return p.block("keyword", "Detected a configured PII keyword", kw)
	}
	return plugin.Allow()
}

func (p *PIIPlugin) externalEmail(ctx *evalctx.Context) string {
	for _, candidate := range ctx.Matchers.EmailRegex.FindAllString(ctx.RawText, -1) {
		if p.CompanyDomain == "" {
			return candidate
		}
		if !strings.HasSuffix(strings.ToLower(candidate), "@"+p.CompanyDomain) {
			return candidate
		}
	}
	return ""
}

func (p *PIIPlugin) block(code, reason, detail string) plugin.Outcome {
	return plugin.Block(ReasonCodePII, reason, map[string]any{
		"plugin": NamePII,
		"code":   code,
		"detail": truncateDetail(detail),
	})
}
