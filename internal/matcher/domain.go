package matcher

import "strings"

// isDomainBoundaryByte reports whether b cannot appear inside a bare domain
// token. Domains are tokenized on every other byte, so `notbad.com` never
// collides with a blocklist entry for `bad.com` (spec.md §4.1).
func isDomainBoundaryByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return false
	case b >= '0' && b <= '9':
		return false
	case b == '-' || b == '.':
		return false
	default:
		return true
	}
}

// DomainTokens splits lowercased text into maximal runs of
// alphanumeric/hyphen/dot characters.
func DomainTokens(lowercasedText string) []string {
	tokens := make([]string, 0, 8)
	start := -1
	for i := 0; i < len(lowercasedText); i++ {
		if isDomainBoundaryByte(lowercasedText[i]) {
			if start >= 0 {
				tokens = append(tokens, lowercasedText[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, lowercasedText[start:])
	}
	return tokens
}

// ContainsDomainToken reports whether domain appears as a whole,
// token-bounded entry among the domain tokens found in text.
func ContainsDomainToken(lowercasedText, domain string) bool {
	domain = strings.ToLower(domain)
	suffix := "." + domain
	for _, tok := range DomainTokens(lowercasedText) {
		if tok == domain || strings.HasSuffix(tok, suffix) {
			return true
		}
	}
	return false
}
