package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/repository/unitofwork"
	"helpdesk-knowledge-be/pkg/embedding"
)

// VectorSearcher is the semantic source backed by the chunk store.
type VectorSearcher interface {
	Search(ctx context.Context, query string, knowledgeBaseId uuid.UUID, limit int) ([]Result, error)
}

type vectorSource struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	config            Config
}

func NewVectorSource(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider, config Config) VectorSearcher {
	return &vectorSource{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		config:            config,
	}
}

func (s *vectorSource) Search(ctx context.Context, query string, knowledgeBaseId uuid.UUID, limit int) ([]Result, error) {
	queryVector, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx,
		queryVector,
		knowledgeBaseId,
		limit,
		s.config.MinSimilarity,
	)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(scored))
	for _, sc := range scored {
		results = append(results, Result{
			Id:       sc.DocumentId.String(),
			Title:    sc.Filename,
			Snippet:  snippet(sc.Chunk.Content),
			Source:   SourceVector,
			RawScore: clamp01(sc.Similarity),
			Metadata: map[string]interface{}{
				"chunk_index": sc.Chunk.ChunkIndex,
				"similarity":  sc.Similarity,
			},
		})
	}
	return results, nil
}

// clamp01 bounds cosine similarity into [0,1]; opposite-direction vectors
// would otherwise push a weighted score negative.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
