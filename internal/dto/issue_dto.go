package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateIssueRequest struct {
	Title       string     `json:"title" validate:"required,max=512"`
	Description string     `json:"description"`
	Resolution  string     `json:"resolution"`
	Tags        []string   `json:"tags,omitempty" validate:"max=16"`
	IsPublic    bool       `json:"is_public"`
	WorkspaceId *uuid.UUID `json:"workspace_id,omitempty"`
}

type UpdateIssueRequest struct {
	Id          uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=512"`
	Description string    `json:"description"`
	Resolution  string    `json:"resolution"`
	Status      string    `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Tags        []string  `json:"tags,omitempty" validate:"max=16"`
	IsPublic    bool      `json:"is_public"`
}

type IssueResponse struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Resolution  string     `json:"resolution"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags,omitempty"`
	IsPublic    bool       `json:"is_public"`
	WorkspaceId *uuid.UUID `json:"workspace_id,omitempty"`
	AuthorId    uuid.UUID  `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
