package mapper

import (
	"time"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/model"
)

type IssueMapper struct{}

func NewIssueMapper() *IssueMapper {
	return &IssueMapper{}
}

func (m *IssueMapper) ToEntity(i *model.Issue) *entity.Issue {
	if i == nil {
		return nil
	}
	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}
	return &entity.Issue{
		Id:          i.Id,
		Title:       i.Title,
		Description: i.Description,
		Resolution:  i.Resolution,
		Status:      i.Status,
		Tags:        jsonToStrings(i.Tags),
		IsPublic:    i.IsPublic,
		WorkspaceId: i.WorkspaceId,
		AuthorId:    i.AuthorId,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *IssueMapper) ToModel(i *entity.Issue) *model.Issue {
	if i == nil {
		return nil
	}
	out := &model.Issue{
		Id:          i.Id,
		Title:       i.Title,
		Description: i.Description,
		Resolution:  i.Resolution,
		Status:      i.Status,
		Tags:        stringsToJSON(i.Tags),
		IsPublic:    i.IsPublic,
		WorkspaceId: i.WorkspaceId,
		AuthorId:    i.AuthorId,
		CreatedAt:   i.CreatedAt,
	}
	if i.UpdatedAt != nil {
		out.UpdatedAt = *i.UpdatedAt
	}
	return out
}
