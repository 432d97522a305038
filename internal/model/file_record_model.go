package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FileRecord is the upload-service row a document originates from.
// Ingestion binds it to a knowledge base and appends the "ai_chat" capability.
type FileRecord struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Filename        string         `gorm:"type:varchar(512);not null"`
	SizeBytes       int64          `gorm:"default:0"`
	ContentType     string         `gorm:"type:varchar(128)"`
	StorageKey      string         `gorm:"type:varchar(1024);not null"`
	KnowledgeBaseId *uuid.UUID     `gorm:"type:uuid;index"` // set once ingested
	Capabilities    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (FileRecord) TableName() string {
	return "file_records"
}
