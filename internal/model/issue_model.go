package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Issue struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `gorm:"type:varchar(512);not null;index"`
	Description string         `gorm:"type:text"`
	Resolution  string         `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(32);default:'open';index"`
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	IsPublic    bool           `gorm:"default:false;index"`
	WorkspaceId *uuid.UUID     `gorm:"type:uuid;index"` // null for global public issues
	AuthorId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Issue) TableName() string {
	return "issues"
}
