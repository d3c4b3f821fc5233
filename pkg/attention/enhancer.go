package attention

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/habitatlabs/attention/pkg/config"
	"github.com/habitatlabs/attention/pkg/logging"
	"github.com/habitatlabs/attention/pkg/tokenizer"
	"github.com/habitatlabs/attention/pkg/types"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("attention")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		debugLog.Warnf("failed to initialize attention logger, using stderr fallback: %v", err)
	}
}

// registration pairs a strategy with its insertion sequence number. The
// sequence is the explicit secondary sort key after priority, so equal
// priorities tie-break deterministically regardless of sort internals.
type registration struct {
	strategy Strategy
	seq      uint64
}

// Enhancer owns the ordered strategy registry and runs the pipeline.
//
// The registry is process-lifetime state mutated only via Register and
// Unregister; both are safe to call concurrently with Enhance.
type Enhancer struct {
	mu      sync.RWMutex
	regs    []registration
	nextSeq uint64
}

// NewEnhancer creates an enhancer with an empty registry.
func NewEnhancer() *Enhancer {
	return &Enhancer{}
}

// NewDefaultEnhancer creates an enhancer with the five built-in strategies
// registered, tuned by cfg (nil means config.Default()). The token
// estimator is the deterministic heuristic; callers wanting model-accurate
// budgeting can re-register a ContextBudgetStrategy with a tokenizer.Tiktoken.
func NewDefaultEnhancer(cfg *config.Config) *Enhancer {
	if cfg == nil {
		cfg = config.Default()
	}
	e := NewEnhancer()
	e.Register(NewRoleFramingStrategy())
	e.Register(NewWorkflowInjectionStrategy(cfg.WorkflowChangeCapability))
	e.Register(NewMemoryRetrievalStrategy(cfg.MaxMemoryEntries))
	e.Register(NewHistoryConstructionStrategy(cfg.MaxHistoryTurns))
	e.Register(NewContextBudgetStrategy(cfg.MaxTokens, tokenizer.NewHeuristic(cfg.CharsPerToken)))
	return e
}

// Register adds a strategy and re-sorts the registry by (priority,
// insertion order). Registering a name that already exists replaces the
// prior registration: the new strategy keeps its own priority and takes a
// fresh insertion slot, so among equal priorities it runs after strategies
// registered before the replacement.
func (e *Enhancer) Register(s Strategy) {
	if s == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, reg := range e.regs {
		if reg.strategy.Name() == s.Name() {
			e.regs = append(e.regs[:i], e.regs[i+1:]...)
			break
		}
	}

	e.regs = append(e.regs, registration{strategy: s, seq: e.nextSeq})
	e.nextSeq++

	sort.SliceStable(e.regs, func(i, j int) bool {
		pi, pj := e.regs[i].strategy.Priority(), e.regs[j].strategy.Priority()
		if pi != pj {
			return pi < pj
		}
		return e.regs[i].seq < e.regs[j].seq
	})
}

// Unregister removes all strategies with the given name. A missing name is
// a no-op.
func (e *Enhancer) Unregister(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.regs[:0]
	for _, reg := range e.regs {
		if reg.strategy.Name() != name {
			kept = append(kept, reg)
		}
	}
	e.regs = kept
}

// Strategies returns a snapshot of the registered strategies in execution
// order. Mutating the returned slice does not affect the registry.
func (e *Enhancer) Strategies() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Strategy, len(e.regs))
	for i, reg := range e.regs {
		out[i] = reg.strategy
	}
	return out
}

// Enhance runs the pipeline: a fold over the ordered strategies with the
// assembly as accumulator, starting from {prompt, "", no history}.
//
// A stage that errors (or returns a nil assembly) is logged and skipped;
// the fold continues from the last good assembly. Enhance never fails: it
// always returns a usable assembly, trading completeness for availability.
func (e *Enhancer) Enhance(ctx context.Context, prompt string, ec *types.EnhanceContext) *types.Assembly {
	out := types.NewAssembly(prompt)

	for _, s := range e.Strategies() {
		next, err := invoke(ctx, s, out.Clone(), ec)
		if err != nil {
			debugLog.Warnf("strategy %s failed, skipping: %v", s.Name(), err)
			continue
		}
		out = next
	}

	return out
}

// invoke runs one stage, converting panics and nil results into errors so
// the enhancer's skip-and-continue handling covers every failure mode.
func invoke(ctx context.Context, s Strategy, a *types.Assembly, ec *types.EnhanceContext) (out *types.Assembly, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	out, err = s.Enhance(ctx, a, ec)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("strategy returned nil assembly")
	}
	return out, nil
}
