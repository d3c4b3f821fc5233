// Package types defines the value types threaded through the attention
// pipeline: the evolving assembly output, conversation turns, and the
// read-only context bundle supplied by the caller for one run.
package types

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one synthetic conversation turn. History is ordered
// chronologically, oldest first.
type Turn struct {
	Role    Role
	Content string
}

// NewUserTurn creates a user-role turn.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// NewAssistantTurn creates an assistant-role turn.
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Assembly is the context-assembly output threaded through the pipeline.
// Each stage receives the previous stage's Assembly and returns a new one.
//
// A nil History means "no synthetic history for this run"; an empty non-nil
// slice means "history was constructed and is empty". Both mean there is
// nothing to prepend, but the two states are distinguishable.
type Assembly struct {
	// Prompt is the user-facing prompt content.
	Prompt string

	// SystemPromptAppend is appended to the agent's system prompt.
	SystemPromptAppend string

	// History is the synthetic conversation prepended before the prompt.
	History []Turn
}

// NewAssembly creates the pipeline's initial assembly for a caller prompt.
func NewAssembly(prompt string) *Assembly {
	return &Assembly{Prompt: prompt}
}

// Clone returns a deep copy. Stages clone before mutating so no stage ever
// shares a History slice with a later stage.
func (a *Assembly) Clone() *Assembly {
	if a == nil {
		return nil
	}
	out := &Assembly{
		Prompt:             a.Prompt,
		SystemPromptAppend: a.SystemPromptAppend,
	}
	if a.History != nil {
		out.History = make([]Turn, len(a.History))
		copy(out.History, a.History)
	}
	return out
}
