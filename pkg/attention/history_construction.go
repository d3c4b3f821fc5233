package attention

import (
	"context"
	"fmt"

	"github.com/habitatlabs/attention/pkg/memory"
	"github.com/habitatlabs/attention/pkg/types"
)

// HistoryConstructionStrategy synthesizes a virtual conversation history
// designed to bias the model toward self-correction and transfer learning.
// The history is not a transcript; it is constructed from two sources:
//
//   - Prophet perspective: Insight-layer entries recalled from the global
//     store (knowledge gained by other running instances of the same role)
//     are presented as the agent's own prior self-knowledge, giving the
//     illusion of continuity across independent runs.
//   - Failure erasure: past failed attempts recorded on the position are
//     rewritten as retrospective lessons-learned exchanges. The literal
//     failed action is never replayed, so the model cannot fixate on or
//     repeat it.
//
// The result is capped at maxTurns, dropping oldest turns first. When no
// qualifying material exists the history is left exactly as inherited from
// the previous stage (normally absent).
type HistoryConstructionStrategy struct {
	maxTurns int
}

// NewHistoryConstructionStrategy creates the history construction stage.
// Turn caps below 2 are clamped to 2 so at least one exchange survives.
func NewHistoryConstructionStrategy(maxTurns int) *HistoryConstructionStrategy {
	if maxTurns < 2 {
		maxTurns = 2
	}
	return &HistoryConstructionStrategy{maxTurns: maxTurns}
}

// Name implements Strategy.
func (s *HistoryConstructionStrategy) Name() string { return "HistoryConstruction" }

// Priority implements Strategy.
func (s *HistoryConstructionStrategy) Priority() int { return PriorityHistoryConstruction }

// Enhance implements Strategy.
func (s *HistoryConstructionStrategy) Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error) {
	if ec == nil {
		return a, nil
	}

	var turns []types.Turn
	turns = append(turns, s.prophetTurns(ctx, ec)...)
	turns = append(turns, failureTurns(ec.Position)...)

	if len(turns) == 0 {
		return a, nil
	}

	// Prepend any inherited history, then cap from the front so the most
	// recent material survives.
	turns = append(a.History, turns...)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}

	a.History = turns
	return a, nil
}

// prophetTurns recalls cross-position insights from the global store and
// renders them as the agent's own prior knowledge. Only Insight-layer
// entries qualify, so the recall fetches with overscan headroom: a store
// whose top matches are traces or episodes must not crowd out insights
// sitting deeper in its result order. A store failure or absence degrades
// to no prophet turns.
func (s *HistoryConstructionStrategy) prophetTurns(ctx context.Context, ec *types.EnhanceContext) []types.Turn {
	query := taskQuery(ec.Task)
	if query == "" && ec.Position != nil {
		query = ec.Position.Role
	}
	if query == "" {
		return nil
	}

	// Each insight becomes one user/assistant exchange, so at most half
	// the turn budget's worth of insights can ever survive the final cap.
	insightBudget := s.maxTurns / 2
	entries := recallQuiet(ctx, ec.GlobalMemory, "global", query, insightBudget*recallOverscan)

	var turns []types.Turn
	for _, e := range entries {
		if len(turns)/2 >= insightBudget {
			break
		}
		if e.Layer != memory.LayerInsight || e.Summary == "" {
			continue
		}
		turns = append(turns,
			types.NewUserTurn("Before you begin, is there anything you already know that applies here?"),
			types.NewAssistantTurn(fmt.Sprintf("Yes. From my earlier work: %s", e.Summary)),
		)
	}
	return turns
}

// failureTurns rewrites recorded failures as lessons-learned exchanges,
// oldest first. The failed action itself is only named, never replayed.
func failureTurns(p *types.Position) []types.Turn {
	if p == nil {
		return nil
	}

	var turns []types.Turn
	for _, f := range p.Failures {
		if f.Task == "" {
			continue
		}
		lesson := f.Lesson
		if lesson == "" {
			lesson = "That approach did not work; next time I should try a different one."
		}
		turns = append(turns,
			types.NewUserTurn(fmt.Sprintf("You previously attempted: %s. What did you take away from that?", f.Task)),
			types.NewAssistantTurn(fmt.Sprintf("Lesson learned: %s", lesson)),
		)
	}
	return turns
}
