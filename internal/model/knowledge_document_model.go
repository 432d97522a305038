package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KnowledgeDocument struct {
	Id              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KnowledgeBaseId uuid.UUID         `gorm:"type:uuid;not null;index"`
	FileRecordId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Filename        string            `gorm:"type:varchar(512);not null"`
	SizeBytes       int64             `gorm:"default:0"`
	ContentType     string            `gorm:"type:varchar(128)"`
	Status          string            `gorm:"type:varchar(16);not null;default:'uploaded';index"`
	ChunkCount      int               `gorm:"default:0"`
	ErrorMessage    string            `gorm:"type:text"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time         `gorm:"autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt    `gorm:"index"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
