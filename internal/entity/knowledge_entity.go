package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	KnowledgeBaseKindVector = "vector_retrieval"
	KnowledgeBaseKindGraph  = "graph_retrieval"
)

const (
	DocumentStatusUploaded = "uploaded"
	DocumentStatusIndexing = "indexing"
	DocumentStatusIndexed  = "indexed"
	DocumentStatusFailed   = "failed"
)

// VectorConfig is the typed form of a knowledge base's vector settings.
type VectorConfig struct {
	Dimension int
	Metric    string // "cosine"
	IndexKind string // "hnsw" | "ivfflat"
}

type KnowledgeBase struct {
	Id            uuid.UUID
	WorkspaceId   uuid.UUID
	Kind          string
	Vector        VectorConfig
	DocumentCount int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type KnowledgeDocument struct {
	Id              uuid.UUID
	KnowledgeBaseId uuid.UUID
	FileRecordId    uuid.UUID
	Filename        string
	SizeBytes       int64
	ContentType     string
	Status          string
	ChunkCount      int
	ErrorMessage    string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	TokenCount int
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
