// Package scan extracts a bill's total amount from raw recognized text.
//
// Extraction is driven by an ordered registry of templates, one per
// supported locale/currency family. Each template carries an ordered
// regex cascade: labeled "total" patterns first, currency-adjacent
// patterns next, bare end-of-line numerics last. Ordering is a designed
// priority, not an optimization.
package scan

import (
	"regexp"
	"strings"
)

// Template describes how to find a total amount for one locale family.
// Patterns must capture exactly one numeric group each and are tried in
// declared order; the first captured candidate that passes Validate wins.
type Template struct {
	Name         string
	CurrencyCode string
	Patterns     []*regexp.Regexp
	Validate     func(candidate, text string) bool
}

// candidateFormat is the shape every accepted amount must have: integer
// part, one separator, exactly two fractional digits.
var candidateFormat = regexp.MustCompile(`^\d+[.,]\d{2}$`)

// totalKeywords flags lines that talk about a bill total, across the
// locales the German template covers.
var totalKeywords = regexp.MustCompile(`(?i)(?:total|gesamt|summe|betrag|amount|zahlen|brutto|rechnung)`)

// maxPlausibleCents caps a bill at one million; anything above is noise.
const maxPlausibleCents = 1_000_000 * 100

var germanTemplate = Template{
	Name:         "German",
	CurrencyCode: "EUR",
	Patterns: []*regexp.Regexp{
		// Labeled totals with optional currency marker.
		regexp.MustCompile(`(?i)(?:TOTAL|GESAMT|SUMME|BETRAG|AMOUNT|ZAHLEN)\s*(?:EUR|€)?\s*(\d+[.,]\d{2})\b`),
		regexp.MustCompile(`(?i)(?:TOTAL|GESAMT|SUMME|BETRAG|AMOUNT|ZAHLEN)[^0-9€]*(\d+[.,]\d{2})\s*(?:EUR|€)?\b`),

		// Specific invoice fields.
		regexp.MustCompile(`(?i)(?:TOTAL|GESAMT)(?:\s+WITH\s+VAT)?\s*:?\s*(\d+[.,]\d{2})\b`),
		regexp.MustCompile(`(?i)RECHNUNGSBETRAG\s*:?\s*(\d+[.,]\d{2})\b`),
		regexp.MustCompile(`(?i)ENDSUMME\s*:?\s*(\d+[.,]\d{2})\b`),
		regexp.MustCompile(`(?i)GESAMTBETRAG\s*:?\s*(\d+[.,]\d{2})\b`),

		// Currency-adjacent amounts.
		regexp.MustCompile(`(?:EUR|€)\s*(\d+[.,]\d{2})\b`),
		regexp.MustCompile(`(\d+[.,]\d{2})\s*(?:EUR|€)\b`),

		// Total sections.
		regexp.MustCompile(`(?i)Total\s*(\d+[.,]\d{2})\b`),

		// End-of-line amounts, gated hard by validation.
		regexp.MustCompile(`(?m).*?(\d+[.,]\d{2})\s*$`),

		// Looser currency proximity.
		regexp.MustCompile(`(?i)(\d+[.,]\d{2})[^0-9]*(?:EUR|€)`),
		regexp.MustCompile(`(?i)(?:EUR|€)[^0-9]*(\d+[.,]\d{2})`),

		// Table cells and trailing columns.
		regexp.MustCompile(`\|\s*(\d+[.,]\d{2})\s*\|`),
		regexp.MustCompile(`(?m)\s+(\d+[.,]\d{2})\s*$`),

		// Amounts following a VAT marker.
		regexp.MustCompile(`(?i)(?:UST|MWST|VAT)\s*(?:\d+%\s*)?(\d+[.,]\d{2})\b`),

		// Last-resort German formats.
		regexp.MustCompile(`(?i)(\d+[.,]\d{2})\s*(?:EUR|€)?\s*(?:INKL\.?\s*(?:UST|MWST|VAT))?`),
	},
	Validate: validateGermanCandidate,
}

// Templates returns the template registry in priority order.
func Templates() []Template {
	return []Template{germanTemplate}
}

// parseCandidateCents parses a candidate already known to match
// candidateFormat. Returns cents and ok.
func parseCandidateCents(candidate string) (int64, bool) {
	sep := strings.IndexAny(candidate, ".,")
	if sep < 0 {
		return 0, false
	}
	var whole int64
	for _, r := range candidate[:sep] {
		if whole > maxPlausibleCents { // avoid overflow on absurd inputs
			return 0, false
		}
		whole = whole*10 + int64(r-'0')
	}
	frac := int64(candidate[sep+1]-'0')*10 + int64(candidate[sep+2]-'0')
	return whole*100 + frac, true
}

// validateGermanCandidate applies the common plausibility rules plus the
// round-number heuristic: a whole-euro amount above 100 is likely a
// quantity or an unrelated figure, so it is only accepted when a total
// keyword appears on the candidate's line or a directly adjacent one.
func validateGermanCandidate(candidate, text string) bool {
	if !candidateFormat.MatchString(candidate) {
		return false
	}
	cents, ok := parseCandidateCents(candidate)
	if !ok || cents <= 0 || cents > maxPlausibleCents {
		return false
	}
	if cents%100 == 0 && cents > 100*100 {
		for _, line := range amountContext(text, candidate) {
			if totalKeywords.MatchString(line) {
				return true
			}
		}
		return false
	}
	return true
}

// amountContext collects, for every line containing the amount verbatim,
// that line plus its immediate neighbors.
func amountContext(text, amount string) []string {
	lines := strings.Split(text, "\n")
	var context []string
	for i, line := range lines {
		if !strings.Contains(line, amount) {
			continue
		}
		if i > 0 {
			context = append(context, lines[i-1])
		}
		context = append(context, line)
		if i < len(lines)-1 {
			context = append(context, lines[i+1])
		}
	}
	return context
}
