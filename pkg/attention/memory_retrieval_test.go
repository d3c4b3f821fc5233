package attention

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/habitatlabs/attention/pkg/memory"
	"github.com/habitatlabs/attention/pkg/types"
)

// mockStore is a testify mock of the memory read contract.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Recall(ctx context.Context, query string, limit int) ([]*memory.Entry, error) {
	args := m.Called(ctx, query, limit)
	var entries []*memory.Entry
	if v := args.Get(0); v != nil {
		entries = v.([]*memory.Entry)
	}
	return entries, args.Error(1)
}

func taskContext(position, global memory.Store) *types.EnhanceContext {
	return &types.EnhanceContext{
		Task:         &types.Task{Type: "review", Payload: "parser"},
		Memory:       position,
		GlobalMemory: global,
	}
}

func TestMemoryRetrievalPrefersInsightOverEpisode(t *testing.T) {
	store := memory.NewMemStore()
	store.Add(
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "parser episode detail"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "parser general insight"},
	)

	s := NewMemoryRetrievalStrategy(1)
	out, err := s.Enhance(context.Background(), types.NewAssembly("p"), taskContext(store, nil))
	require.NoError(t, err)

	assert.Contains(t, out.Prompt, "[insight] parser general insight")
	assert.NotContains(t, out.Prompt, "episode detail")
}

func TestMemoryRetrievalRanksAllLayers(t *testing.T) {
	store := memory.NewMemStore()
	store.Add(
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "review e1"},
		&memory.Entry{Layer: memory.LayerTrace, Summary: "review t1"},
		&memory.Entry{Layer: memory.LayerCategory, Summary: "review c1"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "review i1"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "review i2"},
	)

	s := NewMemoryRetrievalStrategy(3)
	out, err := s.Enhance(context.Background(), types.NewAssembly(""), taskContext(store, nil))
	require.NoError(t, err)

	// Top three by layer precedence: both insights (store order preserved),
	// then the category entry.
	i1 := indexOf(t, out.Prompt, "[insight] review i1")
	i2 := indexOf(t, out.Prompt, "[insight] review i2")
	c1 := indexOf(t, out.Prompt, "[category] review c1")
	assert.Less(t, i1, i2)
	assert.Less(t, i2, c1)
	assert.NotContains(t, out.Prompt, "review t1")
	assert.NotContains(t, out.Prompt, "review e1")
}

func TestMemoryRetrievalMergesBothStores(t *testing.T) {
	position := memory.NewMemStore()
	position.Add(&memory.Entry{Layer: memory.LayerTrace, Summary: "review from position"})
	global := memory.NewMemStore()
	global.Add(&memory.Entry{Layer: memory.LayerInsight, Summary: "review from global"})

	s := NewMemoryRetrievalStrategy(5)
	out, err := s.Enhance(context.Background(), types.NewAssembly(""), taskContext(position, global))
	require.NoError(t, err)

	// Both stores contribute; the global insight outranks the position
	// trace despite merge order.
	gi := indexOf(t, out.Prompt, "[insight] review from global")
	pt := indexOf(t, out.Prompt, "[trace] review from position")
	assert.Less(t, gi, pt)
}

func TestMemoryRetrievalDegradesOnStoreFailure(t *testing.T) {
	broken := new(mockStore)
	broken.On("Recall", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("index unavailable"))

	working := memory.NewMemStore()
	working.Add(&memory.Entry{Layer: memory.LayerInsight, Summary: "review survivor"})

	s := NewMemoryRetrievalStrategy(5)
	out, err := s.Enhance(context.Background(), types.NewAssembly("p"), taskContext(broken, working))
	require.NoError(t, err)

	assert.Contains(t, out.Prompt, "review survivor")
	broken.AssertExpectations(t)
}

func TestMemoryRetrievalBothStoresFailingIsIdentity(t *testing.T) {
	broken := new(mockStore)
	broken.On("Recall", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("down"))

	s := NewMemoryRetrievalStrategy(5)
	out, err := s.Enhance(context.Background(), types.NewAssembly("p"), taskContext(broken, broken))
	require.NoError(t, err)
	assert.Equal(t, "p", out.Prompt)
}

func TestMemoryRetrievalWithoutTaskIsIdentity(t *testing.T) {
	store := memory.NewMemStore()
	store.Add(&memory.Entry{Layer: memory.LayerInsight, Summary: "anything"})

	s := NewMemoryRetrievalStrategy(5)
	out, err := s.Enhance(context.Background(), types.NewAssembly("p"), &types.EnhanceContext{Memory: store})
	require.NoError(t, err)
	assert.Equal(t, "p", out.Prompt)
}

func TestMemoryRetrievalQueryFromTask(t *testing.T) {
	// The recall limit carries overscan headroom over the entry cap so the
	// stage ranks a wider candidate set than it retains.
	store := new(mockStore)
	store.On("Recall", mock.Anything, "review parser", 4*recallOverscan).Return(nil, nil)

	s := NewMemoryRetrievalStrategy(4)
	_, err := s.Enhance(context.Background(), types.NewAssembly(""), taskContext(store, nil))
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestMemoryRetrievalInsightBehindEpisodesStillWins(t *testing.T) {
	// Store order leads with specific layers; the general insight sits at
	// the back. Ranking must happen over the fetched set, not whatever a
	// cap-sized recall happens to return first.
	store := memory.NewMemStore()
	store.Add(
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "parser episode one"},
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "parser episode two"},
		&memory.Entry{Layer: memory.LayerTrace, Summary: "parser trace"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "parser insight at the back"},
	)

	s := NewMemoryRetrievalStrategy(1)
	out, err := s.Enhance(context.Background(), types.NewAssembly("p"), taskContext(store, nil))
	require.NoError(t, err)

	assert.Contains(t, out.Prompt, "[insight] parser insight at the back")
	assert.NotContains(t, out.Prompt, "episode")
	assert.NotContains(t, out.Prompt, "trace")
}

func TestMemoryRetrievalCapAppliesAfterRanking(t *testing.T) {
	// Overscan widens what is fetched, never what is retained.
	store := memory.NewMemStore()
	store.Add(
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "parser e1"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "parser i1"},
		&memory.Entry{Layer: memory.LayerEpisode, Summary: "parser e2"},
		&memory.Entry{Layer: memory.LayerInsight, Summary: "parser i2"},
		&memory.Entry{Layer: memory.LayerCategory, Summary: "parser c1"},
	)

	s := NewMemoryRetrievalStrategy(2)
	out, err := s.Enhance(context.Background(), types.NewAssembly(""), taskContext(store, nil))
	require.NoError(t, err)

	assert.Contains(t, out.Prompt, "[insight] parser i1")
	assert.Contains(t, out.Prompt, "[insight] parser i2")
	assert.NotContains(t, out.Prompt, "parser c1")
	assert.NotContains(t, out.Prompt, "parser e1")
	assert.NotContains(t, out.Prompt, "parser e2")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected %q to contain %q", haystack, needle)
	return idx
}
