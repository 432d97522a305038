package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueSearchQuery filters issues whose title, description or resolution
// contains the pattern (case insensitive, Postgres ILIKE).
type IssueSearchQuery struct {
	Query string
}

func (s IssueSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR description ILIKE ? OR resolution ILIKE ?", pattern, pattern, pattern)
}

// ByIssueStatus filters by lifecycle status ("open", "resolved", ...).
type ByIssueStatus struct {
	Status string
}

func (s ByIssueStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByIssueTag matches issues carrying the tag in their jsonb tags array.
type ByIssueTag struct {
	Tag string
}

func (s ByIssueTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tags @> ?", `["`+s.Tag+`"]`)
}

// IssueVisibility scopes the issue query to what the caller may see.
// Rules:
//   - admin: everything
//   - public-only or anonymous: public issues only
//   - caller with workspace: public + that workspace's + their own
//   - caller without workspace: public + their own
type IssueVisibility struct {
	CallerId    *uuid.UUID
	WorkspaceId *uuid.UUID
	IsAdmin     bool
	PublicOnly  bool
}

func (s IssueVisibility) Apply(db *gorm.DB) *gorm.DB {
	if s.IsAdmin {
		return db
	}
	if s.PublicOnly || s.CallerId == nil {
		return db.Where("is_public = ?", true)
	}
	if s.WorkspaceId != nil {
		return db.Where("is_public = ? OR workspace_id = ? OR author_id = ?", true, *s.WorkspaceId, *s.CallerId)
	}
	return db.Where("is_public = ? OR author_id = ?", true, *s.CallerId)
}
