package contract

import (
	"context"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
)

// ScoredChunk wraps a DocumentChunk with its cosine similarity and the
// owning document's display fields, hydrated by the search query itself.
type ScoredChunk struct {
	Chunk      *entity.DocumentChunk
	DocumentId uuid.UUID
	Filename   string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	// SearchSimilarWithScore returns chunks of indexed documents in the given
	// knowledge base, ordered by ascending cosine distance, filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, knowledgeBaseId uuid.UUID, limit int, minSimilarity float64) ([]*ScoredChunk, error)
}
