// Package attention assembles the prompt, system-prompt addendum, and
// synthetic conversation history handed to an LLM-driven agent before each
// invocation. An Enhancer runs an ordered chain of enhancement strategies,
// each transforming the previous stage's assembly, with per-stage failures
// isolated so one broken concern never takes down the run.
package attention

import (
	"context"

	"github.com/habitatlabs/attention/pkg/types"
)

// Built-in strategy priorities. Lower runs earlier. The ordering encodes
// precedence: framing before injection before memory before history before
// budgeting, because budget trimming must see the fully-assembled content.
const (
	PriorityRoleFraming         = 10
	PriorityWorkflowInjection   = 20
	PriorityMemoryRetrieval     = 30
	PriorityHistoryConstruction = 40
	PriorityContextBudget       = 50
)

// Strategy is one enhancement stage. Implementations transform the incoming
// assembly into a new one; they must treat the EnhanceContext as read-only.
//
// A strategy that has nothing to do for its concern (missing optional
// context fields) must return its input unchanged rather than erroring.
// The enhancer hands each strategy its own copy of the assembly, so
// implementations may mutate the argument freely before returning it.
type Strategy interface {
	// Name identifies the strategy in the registry and in failure logs.
	Name() string

	// Priority orders execution; lower runs earlier. Strategies with equal
	// priority run in registration order.
	Priority() int

	// Enhance produces the next assembly from the current one.
	Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error)
}
