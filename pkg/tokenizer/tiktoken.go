package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/habitatlabs/attention/pkg/types"
)

// DefaultEncoding is the BPE encoding used when no model is specified.
const DefaultEncoding = "cl100k_base"

// Tiktoken estimates tokens with a real BPE vocabulary. Counts are accurate
// for the configured encoding at the cost of loading the vocabulary and
// losing the heuristic's cross-model determinism.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates an estimator for the given encoding name. An empty
// name selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// NewTiktokenForModel creates an estimator using the encoding registered
// for the given model name.
func NewTiktokenForModel(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: encoding for model %q: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// CountText implements Estimator.
func (t *Tiktoken) CountText(s string) int {
	if s == "" {
		return 0
	}
	return len(t.enc.Encode(s, nil, nil))
}

// CountTurns implements Estimator.
func (t *Tiktoken) CountTurns(turns []types.Turn) int {
	total := 0
	for _, turn := range turns {
		total += t.CountText(turn.Content) + TurnOverheadTokens
	}
	return total
}

// Truncate implements Estimator by encoding, cutting the token sequence,
// and decoding the kept prefix.
func (t *Tiktoken) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := t.enc.Encode(s, nil, nil)
	if len(tokens) <= maxTokens {
		return s
	}
	return t.enc.Decode(tokens[:maxTokens])
}
