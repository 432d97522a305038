package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
	"helpdesk-knowledge-be/pkg/storage"
)

type IFileService interface {
	// UploadFile stores the raw bytes, records the file, and queues ingestion.
	UploadFile(ctx context.Context, workspaceId uuid.UUID, filename, contentType string, data []byte) (*dto.UploadFileResponse, error)
}

type fileService struct {
	uowFactory       unitofwork.RepositoryFactory
	blobStore        storage.BlobStore
	publisherService IPublisherService
}

func NewFileService(
	uowFactory unitofwork.RepositoryFactory,
	blobStore storage.BlobStore,
	publisherService IPublisherService,
) IFileService {
	return &fileService{
		uowFactory:       uowFactory,
		blobStore:        blobStore,
		publisherService: publisherService,
	}
}

func (s *fileService) UploadFile(ctx context.Context, workspaceId uuid.UUID, filename, contentType string, data []byte) (*dto.UploadFileResponse, error) {
	recordId := uuid.New()
	storageKey := fmt.Sprintf("%s/%s", workspaceId, recordId)

	if err := s.blobStore.Write(ctx, storageKey, data); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	record := &entity.FileRecord{
		Id:          recordId,
		WorkspaceId: workspaceId,
		Filename:    filename,
		SizeBytes:   int64(len(data)),
		ContentType: contentType,
		StorageKey:  storageKey,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FileRecordRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{
		FileRecordId: record.Id,
		WorkspaceId:  workspaceId,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	return &dto.UploadFileResponse{
		FileRecordId: record.Id,
		Filename:     record.Filename,
		SizeBytes:    record.SizeBytes,
	}, nil
}
