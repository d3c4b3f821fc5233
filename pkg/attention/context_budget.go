package attention

import (
	"context"

	"github.com/habitatlabs/attention/pkg/tokenizer"
	"github.com/habitatlabs/attention/pkg/types"
)

// TruncationNotice marks a prompt that was cut to fit the context budget,
// visible to both the model and any downstream auditor.
const TruncationNotice = "\n\n[...content truncated to fit context budget...]"

// ContextBudgetStrategy estimates the token cost of the assembled context
// and trims the least valuable content until it fits maxTokens. It runs
// last so trimming sees the fully-assembled content.
//
// Truncation order, least valuable first:
//
//  1. Oldest history turns, one at a time, re-estimating after each drop.
//  2. The prompt, cut to the remaining allowance with TruncationNotice
//     appended.
//
// The system-prompt addendum is never truncated: it carries role-framing
// safety content and outranks both prompt and history. If it alone exceeds
// the budget the stage still returns a well-formed assembly that may
// legitimately exceed maxTokens. That is accepted policy, not a failure.
type ContextBudgetStrategy struct {
	maxTokens int
	est       tokenizer.Estimator
}

// NewContextBudgetStrategy creates the budget stage. A nil estimator
// selects the default character-ratio heuristic.
func NewContextBudgetStrategy(maxTokens int, est tokenizer.Estimator) *ContextBudgetStrategy {
	if est == nil {
		est = tokenizer.NewHeuristic(tokenizer.DefaultCharsPerToken)
	}
	return &ContextBudgetStrategy{maxTokens: maxTokens, est: est}
}

// Name implements Strategy.
func (s *ContextBudgetStrategy) Name() string { return "ContextBudget" }

// Priority implements Strategy.
func (s *ContextBudgetStrategy) Priority() int { return PriorityContextBudget }

// Enhance implements Strategy.
func (s *ContextBudgetStrategy) Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error) {
	if s.maxTokens <= 0 {
		return a, nil
	}

	total := tokenizer.CountAssembly(s.est, a)
	if total <= s.maxTokens {
		return a, nil
	}

	// Step 1: drop oldest history turns until under budget or empty.
	for len(a.History) > 0 && total > s.maxTokens {
		a.History = a.History[1:]
		total = tokenizer.CountAssembly(s.est, a)
	}
	if total <= s.maxTokens {
		return a, nil
	}

	// Step 2: cut the prompt to the remaining allowance. The allowance
	// reserves room for the addendum, surviving history, and the notice
	// itself; it can go to zero but the notice is always appended.
	allowance := s.maxTokens -
		s.est.CountText(a.SystemPromptAppend) -
		s.est.CountTurns(a.History) -
		s.est.CountText(TruncationNotice)
	if allowance < 0 {
		allowance = 0
	}

	a.Prompt = s.est.Truncate(a.Prompt, allowance) + TruncationNotice
	return a, nil
}
