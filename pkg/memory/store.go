package memory

import "context"

// Store is the read-only recall interface consumed by the pipeline.
//
// Recall returns at most limit entries relevant to the query, in the store's
// own relevance order. Implementations may hit disk or a remote index, so
// Recall takes a context and may fail; the pipeline treats a failed recall
// as "no memories this turn" rather than an error.
type Store interface {
	Recall(ctx context.Context, query string, limit int) ([]*Entry, error)
}
