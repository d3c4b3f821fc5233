package attention

import (
	"context"
	"fmt"

	"github.com/habitatlabs/attention/pkg/types"
)

// DefaultWorkflowChangeCapability is the capability name agents are told to
// invoke to request a change to their own workflow.
const DefaultWorkflowChangeCapability = "request_workflow_change"

// WorkflowInjectionStrategy exposes the agent's own workflow source back
// into its prompt so the agent can reason about, and propose edits to, the
// code that drives it. With no workflow source in the context the stage is
// a strict no-op: nothing is appended, not even empty sections.
type WorkflowInjectionStrategy struct {
	changeCapability string
}

// NewWorkflowInjectionStrategy creates the workflow injection stage. An
// empty changeCapability selects DefaultWorkflowChangeCapability.
func NewWorkflowInjectionStrategy(changeCapability string) *WorkflowInjectionStrategy {
	if changeCapability == "" {
		changeCapability = DefaultWorkflowChangeCapability
	}
	return &WorkflowInjectionStrategy{changeCapability: changeCapability}
}

// Name implements Strategy.
func (s *WorkflowInjectionStrategy) Name() string { return "WorkflowInjection" }

// Priority implements Strategy.
func (s *WorkflowInjectionStrategy) Priority() int { return PriorityWorkflowInjection }

// Enhance implements Strategy.
func (s *WorkflowInjectionStrategy) Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error) {
	if ec == nil || ec.WorkflowSource == "" {
		return a, nil
	}

	a.Prompt += fmt.Sprintf(
		"\n\n## Your workflow\n\n"+
			"This is the source code of the workflow currently driving you. "+
			"If you believe it should change, invoke the `%s` capability with your proposed edit.\n\n"+
			"```\n%s\n```",
		s.changeCapability, ec.WorkflowSource,
	)
	return a, nil
}
