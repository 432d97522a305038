package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/mapper"
	"helpdesk-knowledge-be/internal/model"
	"helpdesk-knowledge-be/internal/repository/contract"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentId).
		Count(&count).Error
	return count, err
}

// similarChunksQuery builds the pgvector nearest-neighbor query.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding <=> query_vector) and filter on the threshold in SQL.
func similarChunksQuery(db *gorm.DB, queryVector pgvector.Vector, knowledgeBaseId uuid.UUID, minSimilarity float64) *gorm.DB {
	return db.
		Table("document_chunks").
		Select("document_chunks.*, knowledge_documents.filename AS filename, 1 - (document_chunks.embedding <=> ?) AS similarity", queryVector).
		Joins("JOIN knowledge_documents ON knowledge_documents.id = document_chunks.document_id").
		Where("knowledge_documents.knowledge_base_id = ?", knowledgeBaseId).
		Where("knowledge_documents.status = ?", entity.DocumentStatusIndexed).
		Where("knowledge_documents.deleted_at IS NULL").
		Where("document_chunks.embedding IS NOT NULL").
		Where("1 - (document_chunks.embedding <=> ?) >= ?", queryVector, minSimilarity).
		Order("similarity DESC")
}

func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(
	ctx context.Context,
	embedding []float32,
	knowledgeBaseId uuid.UUID,
	limit int,
	minSimilarity float64,
) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.DocumentChunk
		Filename   string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := similarChunksQuery(r.db.WithContext(ctx), queryVector, knowledgeBaseId, minSimilarity).
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentChunk),
			DocumentId: res.DocumentChunk.DocumentId,
			Filename:   res.Filename,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
