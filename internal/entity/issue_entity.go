package entity

import (
	"time"

	"github.com/google/uuid"
)

type Issue struct {
	Id          uuid.UUID
	Title       string
	Description string
	Resolution  string
	Status      string
	Tags        []string
	IsPublic    bool
	WorkspaceId *uuid.UUID
	AuthorId    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
