// Package tokenizer provides token-count estimation for assembled context.
//
// The budget stage needs an estimate of how many tokens a prompt, a
// system-prompt addendum, or a history turn will cost. Two estimators are
// provided: a deterministic character-ratio Heuristic (the default, fully
// portable, no model data needed) and a Tiktoken estimator backed by a real
// BPE vocabulary for callers that want model-accurate counts.
package tokenizer

import "github.com/habitatlabs/attention/pkg/types"

const (
	// DefaultCharsPerToken is the prose character-to-token ratio used by
	// the heuristic estimator. Four characters per token is the common
	// rule of thumb for English prose.
	DefaultCharsPerToken = 4

	// TurnOverheadTokens is the fixed per-turn framing cost charged on top
	// of a turn's content (role marker plus message separators).
	TurnOverheadTokens = 3
)

// Estimator estimates the token cost of text and truncates text to fit a
// token allowance.
type Estimator interface {
	// CountText estimates the token cost of a prose string.
	CountText(s string) int

	// CountTurns estimates the total token cost of a conversation history,
	// including per-turn framing overhead.
	CountTurns(turns []types.Turn) int

	// Truncate returns the longest prefix of s that fits within maxTokens.
	// A non-positive maxTokens yields the empty string.
	Truncate(s string, maxTokens int) string
}

// CountAssembly estimates the total token cost of an assembly using est.
func CountAssembly(est Estimator, a *types.Assembly) int {
	if a == nil {
		return 0
	}
	return est.CountText(a.Prompt) + est.CountText(a.SystemPromptAppend) + est.CountTurns(a.History)
}
