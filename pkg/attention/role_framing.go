package attention

import (
	"context"
	"fmt"
	"strings"

	"github.com/habitatlabs/attention/pkg/types"
)

// RoleFramingStrategy seeds the system-prompt addendum with role-specific
// framing: the program's configured system prompt, a summary of the current
// position and task, and the pending todo list. It is a pure function of
// the context; every field is optional and absence degrades to omission.
type RoleFramingStrategy struct{}

// NewRoleFramingStrategy creates the role framing stage.
func NewRoleFramingStrategy() *RoleFramingStrategy {
	return &RoleFramingStrategy{}
}

// Name implements Strategy.
func (s *RoleFramingStrategy) Name() string { return "RoleFraming" }

// Priority implements Strategy.
func (s *RoleFramingStrategy) Priority() int { return PriorityRoleFraming }

// Enhance implements Strategy.
func (s *RoleFramingStrategy) Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error) {
	if ec == nil {
		return a, nil
	}

	var sections []string

	if ec.Program != nil && ec.Program.SystemPrompt != "" {
		sections = append(sections, ec.Program.SystemPrompt)
	}

	if summary := stateSummary(ec); summary != "" {
		sections = append(sections, summary)
	}

	if todos := renderTodos(ec.Todos); todos != "" {
		sections = append(sections, todos)
	}

	if len(sections) == 0 {
		return a, nil
	}

	a.SystemPromptAppend = appendSection(a.SystemPromptAppend, strings.Join(sections, "\n\n"))
	return a, nil
}

// stateSummary renders the position and task state as a compact block.
func stateSummary(ec *types.EnhanceContext) string {
	var lines []string

	if p := ec.Position; p != nil && (p.ID != "" || p.Role != "") {
		var line string
		switch {
		case p.ID != "" && p.Role != "":
			line = fmt.Sprintf("You are position %s, an instance of the %s role.", p.ID, p.Role)
		case p.ID != "":
			line = fmt.Sprintf("You are position %s.", p.ID)
		default:
			line = fmt.Sprintf("You are an instance of the %s role.", p.Role)
		}
		if p.State != "" {
			line += fmt.Sprintf(" Current state: %s.", p.State)
		}
		lines = append(lines, line)
	}

	if t := ec.Task; t != nil {
		line := "Current task"
		if t.Type != "" {
			line += fmt.Sprintf(" (%s)", t.Type)
		}
		if t.ID != "" {
			line += fmt.Sprintf(" [%s]", t.ID)
		}
		line += ":"
		if t.Payload != "" {
			line += " " + t.Payload
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderTodos formats the todo list as a checkbox block. Returns "" when
// there is nothing pending to show.
func renderTodos(todos []types.TodoItem) string {
	if len(todos) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Todo list:")
	for _, item := range todos {
		box := "[ ]"
		if item.Done {
			box = "[x]"
		}
		b.WriteString(fmt.Sprintf("\n- %s %s", box, item.Text))
	}
	return b.String()
}

// appendSection joins existing content and a new section with a blank line,
// avoiding a leading separator when the existing content is empty.
func appendSection(existing, section string) string {
	if existing == "" {
		return section
	}
	return existing + "\n\n" + section
}
