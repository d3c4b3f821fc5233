// Package memory defines the read contract for long-term agent memory.
//
// The pipeline only ever reads memory: it asks a Store for entries relevant
// to a query and ranks them by abstraction layer. How entries are stored,
// indexed, or written back is owned by the hosting application.
package memory

// Layer classifies how abstract a memory entry is, from generalized
// knowledge (Insight) down to raw episodic detail (Episode).
type Layer string

const (
	LayerInsight  Layer = "insight"
	LayerCategory Layer = "category"
	LayerTrace    Layer = "trace"
	LayerEpisode  Layer = "episode"
)

// layerRanks orders layers from most general to most specific. Lower rank
// sorts first: under a fixed entry budget the pipeline prefers generalized
// knowledge, which costs fewer tokens and transfers more broadly than raw
// episodic traces.
var layerRanks = map[Layer]int{
	LayerInsight:  0,
	LayerCategory: 1,
	LayerTrace:    2,
	LayerEpisode:  3,
}

// Rank returns the layer's precedence position. Unknown layers rank last so
// entries from a newer store schema degrade gracefully instead of jumping
// the queue.
func (l Layer) Rank() int {
	if r, ok := layerRanks[l]; ok {
		return r
	}
	return len(layerRanks)
}

// Valid reports whether l is one of the four known layers.
func (l Layer) Valid() bool {
	_, ok := layerRanks[l]
	return ok
}

// Entry is a single recalled memory.
type Entry struct {
	// Layer is the abstraction level of this entry.
	Layer Layer

	// Summary is the compact text injected into the prompt.
	Summary string

	// Score is an optional store-assigned relevance score. The pipeline
	// does not interpret it; stores that rank internally may leave it zero.
	Score float64
}
