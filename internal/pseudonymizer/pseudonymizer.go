// Package pseudonymizer strips PII patterns from free text before it is sent
// to the external generation service. It is a last line of defense, not a
// guarantee of anonymity: anything the patterns miss passes through.
package pseudonymizer

import "regexp"

// pattern pairs a compiled regex with its replacement token. Replacements
// run in declaration order.
type pattern struct {
	re          *regexp.Regexp
	replacement string
}

var patterns = []pattern{
	// Email: unambiguous structural markers (@, domain, TLD).
	{regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`), "[EMAIL]"},
	// Phone: optional country code; a separator after the area code keeps
	// bare digit runs (national IDs) out of this pattern.
	{regexp.MustCompile(`(\+?\d{1,3}[-.\s])?\(?\d{2,4}\)?[-.\s]\d{3}[-.\s]?\d{4}\b`), "[PHONE]"},
	// National ID: bare 9-digit or hyphenated forms.
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`), "[ID]"},
	// Self-disclosure phrases: the phrase survives, the captured name does not.
	{regexp.MustCompile(`(?i)(my name is\s+)([A-Za-z][A-Za-z\-']*)`), "${1}[NAME]"},
	{regexp.MustCompile(`\b(I'?m\s+)([A-Z][a-z\-']+)\b`), "${1}[NAME]"},
}

// Pseudonymize applies the PII pattern replacements in order. When
// allowExternalPII is true (explicit user consent) the input is returned
// unchanged. Text with no matches also passes through unchanged.
func Pseudonymize(text string, allowExternalPII bool) string {
	if allowExternalPII {
		return text
	}
	for _, p := range patterns {
		text = p.re.ReplaceAllString(text, p.replacement)
	}
	return text
}
