package attention

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/habitatlabs/attention/pkg/memory"
	"github.com/habitatlabs/attention/pkg/types"
)

// MemoryRetrievalStrategy queries the position-scoped and global memory
// stores for entries relevant to the current task, ranks them by
// abstraction layer, and appends the retained entries to the prompt.
//
// Ranking prefers generality: Insight > Category > Trace > Episode. Under a
// fixed entry budget generalized knowledge is cheaper in tokens and applies
// more broadly than raw episodic traces. Entries within one layer keep
// their store-return order, with position-store entries ahead of global
// ones.
//
// The formatted block lands on the prompt rather than the system-prompt
// addendum: memories are task-scoped working material the agent should
// weigh, not standing policy, and keeping them out of SystemPromptAppend
// also keeps them trimmable by the budget stage.
type MemoryRetrievalStrategy struct {
	maxEntries int
}

// recallOverscan is the headroom multiplier for per-store recall limits.
// Stores return matches in their own order, so fetching exactly the entry
// cap would let specific layers crowd out more general ones before the
// layer ranking runs. Fetch wide, rank, then cap.
const recallOverscan = 4

// NewMemoryRetrievalStrategy creates the memory retrieval stage. Entry caps
// below 1 are clamped to 1.
func NewMemoryRetrievalStrategy(maxEntries int) *MemoryRetrievalStrategy {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryRetrievalStrategy{maxEntries: maxEntries}
}

// Name implements Strategy.
func (s *MemoryRetrievalStrategy) Name() string { return "MemoryRetrieval" }

// Priority implements Strategy.
func (s *MemoryRetrievalStrategy) Priority() int { return PriorityMemoryRetrieval }

// Enhance implements Strategy.
func (s *MemoryRetrievalStrategy) Enhance(ctx context.Context, a *types.Assembly, ec *types.EnhanceContext) (*types.Assembly, error) {
	if ec == nil {
		return a, nil
	}

	query := taskQuery(ec.Task)
	if query == "" {
		return a, nil
	}

	entries := s.recallBoth(ctx, ec.Memory, ec.GlobalMemory, query)
	if len(entries) == 0 {
		return a, nil
	}

	rankByLayer(entries)
	if len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	a.Prompt += formatMemoryBlock(entries)
	return a, nil
}

// recallBoth queries both stores concurrently, with overscan headroom so
// the post-merge ranking sees more candidates than the final cap keeps. A
// failing store degrades to "no memories from that store" rather than
// failing the stage.
func (s *MemoryRetrievalStrategy) recallBoth(ctx context.Context, position, global memory.Store, query string) []*memory.Entry {
	var positionEntries, globalEntries []*memory.Entry
	limit := s.maxEntries * recallOverscan

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		positionEntries = recallQuiet(gctx, position, "position", query, limit)
		return nil
	})
	g.Go(func() error {
		globalEntries = recallQuiet(gctx, global, "global", query, limit)
		return nil
	})
	_ = g.Wait() // goroutines never return errors; degradation is per store

	return append(positionEntries, globalEntries...)
}

// recallQuiet wraps Store.Recall with nil-store and error tolerance.
func recallQuiet(ctx context.Context, store memory.Store, label, query string, limit int) []*memory.Entry {
	if store == nil {
		return nil
	}
	entries, err := store.Recall(ctx, query, limit)
	if err != nil {
		debugLog.Warnf("%s memory store recall failed, continuing without: %v", label, err)
		return nil
	}
	return entries
}

// rankByLayer sorts entries by layer precedence, most general first,
// preserving input order within a layer.
func rankByLayer(entries []*memory.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Layer.Rank() < entries[j].Layer.Rank()
	})
}

// taskQuery derives recall query text from the current task.
func taskQuery(t *types.Task) string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join([]string{t.Type, t.Payload}, " "))
}

// formatMemoryBlock renders retained entries as a compact labeled block.
func formatMemoryBlock(entries []*memory.Entry) string {
	var b strings.Builder
	b.WriteString("\n\n## Relevant memories\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("\n- [%s] %s", e.Layer, e.Summary))
	}
	return b.String()
}
