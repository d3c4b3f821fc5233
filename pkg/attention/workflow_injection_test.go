package attention

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitatlabs/attention/pkg/types"
)

func TestWorkflowInjectionWithoutSourceIsIdentity(t *testing.T) {
	s := NewWorkflowInjectionStrategy("")

	in := &types.Assembly{
		Prompt:             "the prompt",
		SystemPromptAppend: "the append",
		History:            []types.Turn{types.NewUserTurn("hi")},
	}
	out, err := s.Enhance(context.Background(), in, &types.EnhanceContext{})
	require.NoError(t, err)

	// Byte-for-byte identity, not just equivalence.
	assert.Equal(t, "the prompt", out.Prompt)
	assert.Equal(t, "the append", out.SystemPromptAppend)
	assert.Equal(t, in.History, out.History)
}

func TestWorkflowInjectionAppendsDelimitedBlock(t *testing.T) {
	s := NewWorkflowInjectionStrategy("propose_workflow_edit")
	ec := &types.EnhanceContext{WorkflowSource: "step one\nstep two"}

	out, err := s.Enhance(context.Background(), types.NewAssembly("base"), ec)
	require.NoError(t, err)

	assert.True(t, len(out.Prompt) > len("base"))
	assert.Contains(t, out.Prompt, "## Your workflow")
	assert.Contains(t, out.Prompt, "`propose_workflow_edit`")
	assert.Contains(t, out.Prompt, "```\nstep one\nstep two\n```")
	assert.Equal(t, "base", out.Prompt[:4])
	assert.Empty(t, out.SystemPromptAppend)
}

func TestWorkflowInjectionDefaultCapability(t *testing.T) {
	s := NewWorkflowInjectionStrategy("")
	ec := &types.EnhanceContext{WorkflowSource: "src"}

	out, err := s.Enhance(context.Background(), types.NewAssembly(""), ec)
	require.NoError(t, err)
	assert.Contains(t, out.Prompt, "`"+DefaultWorkflowChangeCapability+"`")
}
