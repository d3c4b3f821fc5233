package tokenizer

import (
	"unicode/utf8"

	"github.com/habitatlabs/attention/pkg/types"
)

// Heuristic estimates tokens as character count divided by a fixed ratio.
// It is deterministic across platforms and model versions, which keeps the
// budget stage's truncation behavior reproducible. Counts are approximate;
// callers that need accuracy against a specific model should use Tiktoken.
type Heuristic struct {
	charsPerToken int
}

// NewHeuristic creates a character-ratio estimator. Ratios below 1 are
// clamped to DefaultCharsPerToken.
func NewHeuristic(charsPerToken int) *Heuristic {
	if charsPerToken < 1 {
		charsPerToken = DefaultCharsPerToken
	}
	return &Heuristic{charsPerToken: charsPerToken}
}

// CountText implements Estimator. Rounds up so short non-empty strings
// never estimate to zero tokens.
func (h *Heuristic) CountText(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + h.charsPerToken - 1) / h.charsPerToken
}

// CountTurns implements Estimator.
func (h *Heuristic) CountTurns(turns []types.Turn) int {
	total := 0
	for _, t := range turns {
		total += h.CountText(t.Content) + TurnOverheadTokens
	}
	return total
}

// Truncate implements Estimator by converting the token allowance back to a
// character allowance.
func (h *Heuristic) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	maxChars := maxTokens * h.charsPerToken
	if len(s) <= maxChars {
		return s
	}
	// Back off to a rune boundary so the cut never splits a code point.
	for maxChars > 0 && !utf8.RuneStart(s[maxChars]) {
		maxChars--
	}
	return s[:maxChars]
}
