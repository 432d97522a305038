package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
)

type IKnowledgeService interface {
	// EnqueueIngestion schedules background ingestion for an uploaded file record.
	EnqueueIngestion(ctx context.Context, fileRecordId uuid.UUID, workspaceId uuid.UUID) error
	GetDocumentStatus(ctx context.Context, documentId uuid.UUID, workspaceId uuid.UUID) (*dto.DocumentStatusResponse, error)
	ListKnowledgeBases(ctx context.Context, workspaceId uuid.UUID) ([]dto.KnowledgeBaseResponse, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	ingestStaleAfter time.Duration
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	ingestStaleAfter time.Duration,
) IKnowledgeService {
	if ingestStaleAfter <= 0 {
		ingestStaleAfter = 15 * time.Minute
	}
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		ingestStaleAfter: ingestStaleAfter,
	}
}

func (s *knowledgeService) EnqueueIngestion(ctx context.Context, fileRecordId uuid.UUID, workspaceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.FileRecordRepository().FindOne(ctx,
		specification.ByID{ID: fileRecordId},
		specification.Filter("workspace_id", workspaceId),
	)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: %s", ErrFileRecordNotFound, fileRecordId)
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{
		FileRecordId: record.Id,
		WorkspaceId:  workspaceId,
	})
	if err != nil {
		return err
	}

	return s.publisherService.Publish(ctx, payload)
}

func (s *knowledgeService) GetDocumentStatus(ctx context.Context, documentId uuid.UUID, workspaceId uuid.UUID) (*dto.DocumentStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	// The document belongs to the caller's workspace through its base.
	kb, err := uow.KnowledgeBaseRepository().FindOne(ctx,
		specification.ByID{ID: doc.KnowledgeBaseId},
		specification.Filter("workspace_id", workspaceId),
	)
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, nil
	}

	return &dto.DocumentStatusResponse{
		Id:              doc.Id,
		KnowledgeBaseId: doc.KnowledgeBaseId,
		Filename:        doc.Filename,
		Status:          doc.Status,
		ChunkCount:      doc.ChunkCount,
		ErrorMessage:    doc.ErrorMessage,
		Retryable:       s.isRetryable(doc),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}

// isRetryable flags documents stuck mid-ingestion. A document that has
// been "indexing" longer than the stale window lost its worker; a failed
// document may always be re-submitted.
func (s *knowledgeService) isRetryable(doc *entity.KnowledgeDocument) bool {
	if doc.Status == entity.DocumentStatusFailed {
		return true
	}
	if doc.Status != entity.DocumentStatusIndexing {
		return false
	}
	lastTouched := doc.CreatedAt
	if doc.UpdatedAt != nil {
		lastTouched = *doc.UpdatedAt
	}
	return time.Since(lastTouched) > s.ingestStaleAfter
}

func (s *knowledgeService) ListKnowledgeBases(ctx context.Context, workspaceId uuid.UUID) ([]dto.KnowledgeBaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bases, err := uow.KnowledgeBaseRepository().FindAll(ctx,
		specification.Filter("workspace_id", workspaceId),
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.KnowledgeBaseResponse, 0, len(bases))
	for _, kb := range bases {
		responses = append(responses, dto.KnowledgeBaseResponse{
			Id:            kb.Id,
			WorkspaceId:   kb.WorkspaceId,
			Kind:          kb.Kind,
			Dimension:     kb.Vector.Dimension,
			DocumentCount: kb.DocumentCount,
			IsActive:      kb.IsActive,
		})
	}
	return responses, nil
}
