package types

import "github.com/habitatlabs/attention/pkg/memory"

// Program is the static definition of an agent role: the system-prompt
// addendum it carries, the model it runs on, and the capabilities it may
// use. Programs are shared across every position running the role.
type Program struct {
	// Name identifies the role (e.g. "architect", "reviewer").
	Name string

	// SystemPrompt is the role's configured system-prompt addendum.
	SystemPrompt string

	// Model is the model identifier the role runs on.
	Model string

	// Capabilities lists the capability names available to the role.
	Capabilities []string
}

// Failure records one past failed attempt on a position. The history
// construction stage rewrites failures as retrospective lessons rather
// than replaying them verbatim.
type Failure struct {
	// Task describes what was being attempted.
	Task string

	// Lesson is the retrospective takeaway. Empty lessons fall back to a
	// generic "approach did not work" phrasing.
	Lesson string
}

// Position is one running instance of a program. Several positions may run
// the same program concurrently; each holds its own task queue and session
// state.
type Position struct {
	// ID uniquely identifies this running instance.
	ID string

	// Role is the name of the program this position runs.
	Role string

	// State is a short human-readable description of what the position is
	// currently doing (e.g. "idle", "reviewing PR 42").
	State string

	// Failures are past failed attempts recorded against this position,
	// oldest first.
	Failures []Failure
}

// Task is one unit of work routed to a position.
type Task struct {
	// ID uniquely identifies the task.
	ID string

	// Type is the task kind (e.g. "implement", "review").
	Type string

	// Payload is the task's free-form description or body.
	Payload string
}

// TodoItem is one entry of the caller-supplied todo list.
type TodoItem struct {
	Text string
	Done bool
}

// EnhanceContext is the read-only bundle the caller supplies for one
// pipeline run. It is constructed per invocation, must not be mutated by
// strategies, and is discarded after the run.
type EnhanceContext struct {
	// Position is the running agent instance being prompted.
	Position *Position

	// Program is the static role definition for the position.
	Program *Program

	// Task is the current work item, if any.
	Task *Task

	// WorkflowSource is the source code of the workflow driving the agent.
	// Empty means the workflow is not exposed this run.
	WorkflowSource string

	// Memory is the position-scoped memory store.
	Memory memory.Store

	// GlobalMemory is the cross-position memory store shared by every
	// instance of the role.
	GlobalMemory memory.Store

	// Todos is the pending todo list, if the caller tracks one.
	Todos []TodoItem
}
