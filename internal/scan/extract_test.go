package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmountLabeledTotal(t *testing.T) {
	text := "REWE Markt GmbH\nTOTAL 45.90 EUR\nVielen Dank"
	assert.Equal(t, "45.90", ExtractAmount(text, Templates()))
}

func TestExtractAmountCommaSeparator(t *testing.T) {
	text := "SUMME 12,99\nMWST 19% 2,07"
	assert.Equal(t, "12,99", ExtractAmount(text, Templates()))
}

func TestExtractAmountLabeledBeatsEarlierAmounts(t *testing.T) {
	// The labeled-total pattern outranks position in the text.
	text := "POSTEN 1 10.00\nPOSTEN 2 4.50\nGESAMT 24.50"
	assert.Equal(t, "24.50", ExtractAmount(text, Templates()))
}

func TestExtractAmountRoundNumberNeedsKeywordContext(t *testing.T) {
	// A whole-euro amount above 100 with no "total" keyword on its line
	// or the adjacent ones is treated as a quantity, not a bill total.
	noContext := "Artikelnummer 778812\n250.00 EUR\nFiliale 12"
	assert.Equal(t, "", ExtractAmount(noContext, Templates()))

	// The keyword on the matched line itself is enough.
	sameLine := "GESAMT 350.00"
	assert.Equal(t, "350.00", ExtractAmount(sameLine, Templates()))

	// At exactly 100 the heuristic does not trigger at all.
	assert.Equal(t, "100.00", ExtractAmount("GESAMT 100.00", Templates()))

	// A keyword on a neighboring line also rescues the candidate.
	neighbor := "Zu zahlen\n250.00 EUR\nFiliale 12"
	assert.Equal(t, "250.00", ExtractAmount(neighbor, Templates()))
}

func TestExtractAmountRoundNumberBelowThresholdAccepted(t *testing.T) {
	// Exactly 100 does not exceed the threshold, so no context is needed.
	text := "99.00 EUR\n"
	assert.Equal(t, "99.00", ExtractAmount(text, Templates()))
}

func TestExtractAmountNoNumericText(t *testing.T) {
	assert.Equal(t, "", ExtractAmount("keine Zahlen hier\nnur Text", Templates()))
	assert.Equal(t, "", ExtractAmount("", Templates()))
}

func TestExtractAmountImplausiblyLargeRejected(t *testing.T) {
	// Over one million is never a plausible bill.
	text := "TOTAL 1000001.00 EUR"
	assert.Equal(t, "", ExtractAmount(text, Templates()))
}

func TestExtractAmountDeterministic(t *testing.T) {
	text := "Kasse 3\nENDSUMME: 78,35\nUST 19% 12,51"
	first := ExtractAmount(text, Templates())
	require.Equal(t, "78,35", first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractAmount(text, Templates()))
	}
}

func TestExtractAmountEndOfLineFallback(t *testing.T) {
	// No labels, no currency markers; the end-of-line fallback picks up a
	// non-round amount without needing keyword context.
	text := "Bon 4711\n   17.85\n"
	assert.Equal(t, "17.85", ExtractAmount(text, Templates()))
}

func TestResultDetected(t *testing.T) {
	assert.False(t, Result{RawText: "x"}.Detected())
	assert.True(t, Result{Amount: "9.99", RawText: "x"}.Detected())
}

func TestValidateRejectsMalformedCandidates(t *testing.T) {
	tpl := Templates()[0]
	for _, bad := range []string{"12.345", "12", "12,3", "a.bc", "-5.00", ""} {
		assert.False(t, tpl.Validate(bad, bad), "candidate %q", bad)
	}
}

func TestAmountContextBounds(t *testing.T) {
	text := "45.90\nmiddle\nend"
	ctx := amountContext(text, "45.90")
	// First line has no predecessor; context is the line plus its successor.
	require.Len(t, ctx, 2)
	assert.Equal(t, "45.90", ctx[0])
	assert.Equal(t, "middle", ctx[1])

	ctx = amountContext("top\nmid 45.90", "45.90")
	require.Len(t, ctx, 2)
	assert.Equal(t, "top", ctx[0])
}
