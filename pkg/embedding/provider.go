package embedding

import (
	"context"
	"errors"
	"math"
)

// Task types passed through to providers that distinguish document and query vectors.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// ErrProviderUnavailable marks transient provider failures (network, quota,
// throttling). Callers may retry; anything else is terminal.
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// Provider generates fixed-dimension text embeddings.
// GenerateBatch is all-or-nothing: a failed call yields no vectors at all.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

// normalizeVector scales a vector to unit length.
// Cosine distance in pgvector expects normalized vectors for stable scores.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
