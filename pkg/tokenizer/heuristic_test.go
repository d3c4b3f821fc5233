package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/habitatlabs/attention/pkg/types"
)

func TestHeuristicCountText(t *testing.T) {
	h := NewHeuristic(4)

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"single char rounds up", "x", 1},
		{"exact multiple", "abcd", 1},
		{"one over rounds up", "abcde", 2},
		{"longer text", strings.Repeat("x", 400), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.CountText(tt.in))
		})
	}
}

func TestHeuristicClampsRatio(t *testing.T) {
	h := NewHeuristic(0)
	assert.Equal(t, 1, h.CountText("abcd"))
}

func TestHeuristicCountTurns(t *testing.T) {
	h := NewHeuristic(4)

	turns := []types.Turn{
		types.NewUserTurn("abcd"),      // 1 + overhead
		types.NewAssistantTurn("abcd"), // 1 + overhead
	}
	assert.Equal(t, 2+2*TurnOverheadTokens, h.CountTurns(turns))
	assert.Equal(t, 0, h.CountTurns(nil))
}

func TestHeuristicTruncate(t *testing.T) {
	h := NewHeuristic(4)

	assert.Equal(t, "", h.Truncate("anything", 0))
	assert.Equal(t, "", h.Truncate("anything", -1))
	assert.Equal(t, "short", h.Truncate("short", 100))
	assert.Equal(t, strings.Repeat("x", 40), h.Truncate(strings.Repeat("x", 100), 10))
}

func TestHeuristicTruncatePreservesRuneBoundary(t *testing.T) {
	h := NewHeuristic(1)

	// Each rune is three bytes; a 4-byte allowance must back off to the
	// first rune rather than splitting the second.
	s := "日本語テキスト"
	got := h.Truncate(s, 4)
	assert.Equal(t, "日", got)
}

func TestCountAssembly(t *testing.T) {
	h := NewHeuristic(4)

	a := &types.Assembly{
		Prompt:             "abcd",     // 1
		SystemPromptAppend: "abcdefgh", // 2
		History:            []types.Turn{types.NewUserTurn("abcd")}, // 1 + overhead
	}
	assert.Equal(t, 4+TurnOverheadTokens, CountAssembly(h, a))
	assert.Equal(t, 0, CountAssembly(h, nil))
}
