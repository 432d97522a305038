package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/model"
)

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

type KnowledgeBaseMapper struct{}

func NewKnowledgeBaseMapper() *KnowledgeBaseMapper {
	return &KnowledgeBaseMapper{}
}

func (m *KnowledgeBaseMapper) ToEntity(kb *model.KnowledgeBase) *entity.KnowledgeBase {
	if kb == nil {
		return nil
	}
	return &entity.KnowledgeBase{
		Id:          kb.Id,
		WorkspaceId: kb.WorkspaceId,
		Kind:        kb.Kind,
		Vector: entity.VectorConfig{
			Dimension: kb.VectorDimension,
			Metric:    kb.DistanceMetric,
			IndexKind: kb.IndexKind,
		},
		DocumentCount: kb.DocumentCount,
		IsActive:      kb.IsActive,
		CreatedAt:     kb.CreatedAt,
		UpdatedAt:     optionalTime(kb.UpdatedAt),
	}
}

func (m *KnowledgeBaseMapper) ToModel(kb *entity.KnowledgeBase) *model.KnowledgeBase {
	if kb == nil {
		return nil
	}
	out := &model.KnowledgeBase{
		Id:              kb.Id,
		WorkspaceId:     kb.WorkspaceId,
		Kind:            kb.Kind,
		VectorDimension: kb.Vector.Dimension,
		DistanceMetric:  kb.Vector.Metric,
		IndexKind:       kb.Vector.IndexKind,
		DocumentCount:   kb.DocumentCount,
		IsActive:        kb.IsActive,
		CreatedAt:       kb.CreatedAt,
	}
	if kb.UpdatedAt != nil {
		out.UpdatedAt = *kb.UpdatedAt
	}
	return out
}

type KnowledgeDocumentMapper struct{}

func NewKnowledgeDocumentMapper() *KnowledgeDocumentMapper {
	return &KnowledgeDocumentMapper{}
}

func (m *KnowledgeDocumentMapper) ToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}
	return &entity.KnowledgeDocument{
		Id:              d.Id,
		KnowledgeBaseId: d.KnowledgeBaseId,
		FileRecordId:    d.FileRecordId,
		Filename:        d.Filename,
		SizeBytes:       d.SizeBytes,
		ContentType:     d.ContentType,
		Status:          d.Status,
		ChunkCount:      d.ChunkCount,
		ErrorMessage:    d.ErrorMessage,
		Metadata:        map[string]interface{}(d.Metadata),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       optionalTime(d.UpdatedAt),
	}
}

func (m *KnowledgeDocumentMapper) ToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}
	out := &model.KnowledgeDocument{
		Id:              d.Id,
		KnowledgeBaseId: d.KnowledgeBaseId,
		FileRecordId:    d.FileRecordId,
		Filename:        d.Filename,
		SizeBytes:       d.SizeBytes,
		ContentType:     d.ContentType,
		Status:          d.Status,
		ChunkCount:      d.ChunkCount,
		ErrorMessage:    d.ErrorMessage,
		Metadata:        datatypes.JSONMap(d.Metadata),
		CreatedAt:       d.CreatedAt,
	}
	if d.UpdatedAt != nil {
		out.UpdatedAt = *d.UpdatedAt
	}
	return out
}

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		TokenCount: c.TokenCount,
		Metadata:   map[string]interface{}(c.Metadata),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		TokenCount: c.TokenCount,
		Metadata:   datatypes.JSONMap(c.Metadata),
		CreatedAt:  c.CreatedAt,
	}
}
