package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeBase struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"type:varchar(32);not null;default:'vector_retrieval'"`

	// Vector configuration, flattened to columns (typed struct at the entity side)
	VectorDimension int    `gorm:"default:768"`
	DistanceMetric  string `gorm:"type:varchar(16);default:'cosine'"`
	IndexKind       string `gorm:"type:varchar(16);default:'hnsw'"`

	DocumentCount int            `gorm:"default:0"`
	IsActive      bool           `gorm:"default:true;index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}
