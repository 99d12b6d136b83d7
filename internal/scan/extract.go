package scan

import "strings"

// Result is the outcome of scanning one bill. An empty Amount means no
// candidate was detected, which is a valid outcome, not an error.
type Result struct {
	Amount  string `json:"amount,omitempty"`
	RawText string `json:"rawText"`
}

// Detected reports whether an amount candidate was found.
func (r Result) Detected() bool {
	return r.Amount != ""
}

// ExtractAmount returns the first candidate, across templates in priority
// order, that a template's validator accepts. First match wins: templates
// are never merged or scored against each other. Returns "" when nothing
// validates.
func ExtractAmount(text string, templates []Template) string {
	for _, tpl := range templates {
		if amount := tpl.findAmount(text); amount != "" {
			return amount
		}
	}
	return ""
}

// findAmount walks the pattern cascade and returns the first validated
// capture, or "".
func (t Template) findAmount(text string) string {
	for _, pattern := range t.Patterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if t.Validate(candidate, text) {
			return candidate
		}
	}
	return ""
}
