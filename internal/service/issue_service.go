package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
)

var (
	ErrIssueNotFound  = errors.New("issue not found")
	ErrIssueForbidden = errors.New("issue does not belong to caller")
)

type IIssueService interface {
	CreateIssue(ctx context.Context, req dto.CreateIssueRequest, authorId uuid.UUID) (*dto.IssueResponse, error)
	UpdateIssue(ctx context.Context, req dto.UpdateIssueRequest, callerId uuid.UUID, isAdmin bool) (*dto.IssueResponse, error)
	DeleteIssue(ctx context.Context, id uuid.UUID, callerId uuid.UUID, isAdmin bool) error
	ShowIssue(ctx context.Context, id uuid.UUID, visibility specification.IssueVisibility) (*dto.IssueResponse, error)
	ListIssues(ctx context.Context, visibility specification.IssueVisibility, limit, offset int) ([]dto.IssueResponse, error)
}

type issueService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewIssueService(uowFactory unitofwork.RepositoryFactory) IIssueService {
	return &issueService{
		uowFactory: uowFactory,
	}
}

func (s *issueService) CreateIssue(ctx context.Context, req dto.CreateIssueRequest, authorId uuid.UUID) (*dto.IssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue := entity.Issue{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Resolution:  req.Resolution,
		Status:      "open",
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
		WorkspaceId: req.WorkspaceId,
		AuthorId:    authorId,
		CreatedAt:   time.Now(),
	}

	if err := uow.IssueRepository().Create(ctx, &issue); err != nil {
		return nil, err
	}

	return toIssueResponse(&issue), nil
}

func (s *issueService) UpdateIssue(ctx context.Context, req dto.UpdateIssueRequest, callerId uuid.UUID, isAdmin bool) (*dto.IssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue, err := uow.IssueRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}
	if !isAdmin && issue.AuthorId != callerId {
		return nil, ErrIssueForbidden
	}

	issue.Title = req.Title
	issue.Description = req.Description
	issue.Resolution = req.Resolution
	if req.Status != "" {
		issue.Status = req.Status
	}
	issue.Tags = req.Tags
	issue.IsPublic = req.IsPublic
	now := time.Now()
	issue.UpdatedAt = &now

	if err := uow.IssueRepository().Update(ctx, issue); err != nil {
		return nil, err
	}

	return toIssueResponse(issue), nil
}

func (s *issueService) DeleteIssue(ctx context.Context, id uuid.UUID, callerId uuid.UUID, isAdmin bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue, err := uow.IssueRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if issue == nil {
		return ErrIssueNotFound
	}
	if !isAdmin && issue.AuthorId != callerId {
		return ErrIssueForbidden
	}

	return uow.IssueRepository().Delete(ctx, id)
}

func (s *issueService) ShowIssue(ctx context.Context, id uuid.UUID, visibility specification.IssueVisibility) (*dto.IssueResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	issue, err := uow.IssueRepository().FindOne(ctx, specification.ByID{ID: id}, visibility)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}

	return toIssueResponse(issue), nil
}

func (s *issueService) ListIssues(ctx context.Context, visibility specification.IssueVisibility, limit, offset int) ([]dto.IssueResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	issues, err := uow.IssueRepository().FindAll(ctx,
		visibility,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		responses = append(responses, *toIssueResponse(issue))
	}
	return responses, nil
}

func toIssueResponse(issue *entity.Issue) *dto.IssueResponse {
	return &dto.IssueResponse{
		Id:          issue.Id,
		Title:       issue.Title,
		Description: issue.Description,
		Resolution:  issue.Resolution,
		Status:      issue.Status,
		Tags:        issue.Tags,
		IsPublic:    issue.IsPublic,
		WorkspaceId: issue.WorkspaceId,
		AuthorId:    issue.AuthorId,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}
