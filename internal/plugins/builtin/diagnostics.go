// Package builtin implements Sentra's pure, I/O-free plugins: exfil,
// secrets, pii, email_bcc, domain_block, and policy_pack (spec.md §4.4).
package builtin

import (
	"strings"

	"github.com/N3mes1s/sentra/internal/matcher"
)

const maxDetailLen = 128

// truncateDetail clamps a diagnostic snippet to the documented maximum and
// masks AWS-key-shaped substrings so a blocked secret never leaks into the
// diagnostics it triggered (spec.md §4.4).
func truncateDetail(s string) string {
	s = maskSecrets(s)
	if len(s) <= maxDetailLen {
		return s
	}
	return s[:maxDetailLen]
}

func maskSecrets(s string) string {
	matches := matcher.AWSKeyRegex.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(s[m[0] : m[0]+4])
		b.WriteString("...redacted")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
