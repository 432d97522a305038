package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishIngestDocumentMessage is the queue payload handed from the upload
// path to the ingestion consumer.
type PublishIngestDocumentMessage struct {
	FileRecordId uuid.UUID `json:"file_record_id"`
	WorkspaceId  uuid.UUID `json:"workspace_id"`
}

type IngestDocumentResponse struct {
	DocumentId      uuid.UUID `json:"document_id"`
	KnowledgeBaseId uuid.UUID `json:"knowledge_base_id"`
	Status          string    `json:"status"`
	ChunkCount      int       `json:"chunk_count"`
}

type DocumentStatusResponse struct {
	Id              uuid.UUID  `json:"id"`
	KnowledgeBaseId uuid.UUID  `json:"knowledge_base_id"`
	Filename        string     `json:"filename"`
	Status          string     `json:"status"`
	ChunkCount      int        `json:"chunk_count"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	Retryable       bool       `json:"retryable"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type KnowledgeBaseResponse struct {
	Id            uuid.UUID `json:"id"`
	WorkspaceId   uuid.UUID `json:"workspace_id"`
	Kind          string    `json:"kind"`
	Dimension     int       `json:"dimension"`
	DocumentCount int       `json:"document_count"`
	IsActive      bool      `json:"is_active"`
}

type CapabilityUpdateResponse struct {
	FileRecordId uuid.UUID `json:"file_record_id"`
	Capabilities []string  `json:"capabilities"`
}

type UploadFileResponse struct {
	FileRecordId uuid.UUID `json:"file_record_id"`
	Filename     string    `json:"filename"`
	SizeBytes    int64     `json:"size_bytes"`
}
