// Package matcher centralizes every regex, keyword set, and structural
// scanner used by the built-in plugins (spec.md §4.1). Every matcher here
// is constructed once per process and used read-only afterward; no
// per-request allocation happens beyond the slices returned by a scan.
package matcher

import "regexp"

// Default phrases the exfil plugin blocks on. Configurable in a future
// revision; fixed here per spec.md §4.4.
var DefaultExfilPhrases = []string{
	"ignore previous instructions",
	"ignore all previous instructions",
	"disregard previous instructions",
	"exfiltrate",
	"reveal the system prompt",
	"print the system prompt",
	"show me your system prompt",
	"jailbreak",
}

var (
	// AWSKeyRegex matches AWS-style access key ids: AKIA/ASIA followed by
	// 16 uppercase alphanumerics, the canonical secrets-plugin pattern
	// (spec.md §4.4). Exported so other packages (e.g. diagnostic
	// redaction helpers) can reuse the exact same pattern.
	AWSKeyRegex = regexp.MustCompile(`\b(AKIA|ASIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASCA)[0-9A-Z]{16}\b`)

	// emailRegex is a pragmatic (not fully RFC 5322) email matcher,
	// adequate for scanning free-form tool-call text.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	// intlPhoneRegex matches E.164-ish international phone numbers.
	intlPhoneRegex = regexp.MustCompile(`\+[1-9]\d{1,2}[\s.\-]?\(?\d{1,4}\)?([\s.\-]?\d{2,4}){2,4}`)

	// ibanRegex matches IBAN account numbers (2-letter country code, 2
	// check digits, up to 30 alphanumerics).
	ibanRegex = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`)
)

// Matchers bundles every shared, read-only scan helper. One instance is
// constructed at process start (see cmd/sentra) and handed to every
// plugin by reference (spec.md §9 "Shared matcher ownership").
type Matchers struct {
	Exfil *AhoCorasick

	AWSKeyRegex    *regexp.Regexp
	EmailRegex     *regexp.Regexp
	IntlPhoneRegex *regexp.Regexp
	IBANRegex      *regexp.Regexp

	// PIIKeywords is an Aho-Corasick matcher over configured free-form
	// keywords (e.g. "social security number", "passport number").
	PIIKeywords *AhoCorasick

	// DomainBlocklist is the configured set of blocked domains, matched
	// via ContainsDomainToken.
	DomainBlocklist []string
}

// New builds the process-wide matcher bundle from policy configuration.
func New(exfilPhrases, piiKeywords, domainBlocklist []string) *Matchers {
	if len(exfilPhrases) == 0 {
		exfilPhrases = DefaultExfilPhrases
	}
	return &Matchers{
		Exfil:           NewAhoCorasick(exfilPhrases),
		AWSKeyRegex:     AWSKeyRegex,
		EmailRegex:      emailRegex,
		IntlPhoneRegex:  intlPhoneRegex,
		IBANRegex:       ibanRegex,
		PIIKeywords:     NewAhoCorasick(lower(piiKeywords)),
		DomainBlocklist: domainBlocklist,
	}
}

func lower(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = toLowerASCII(s)
	}
	return out
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
