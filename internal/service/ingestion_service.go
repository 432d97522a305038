package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/pkg/logger"
	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
	"helpdesk-knowledge-be/pkg/chunker"
	"helpdesk-knowledge-be/pkg/embedding"
	"helpdesk-knowledge-be/pkg/events"
	"helpdesk-knowledge-be/pkg/nats"
	"helpdesk-knowledge-be/pkg/storage"
)

const ingestionModule = "ingestion"

// ErrFileRecordNotFound reports an unknown or deleted file record.
var ErrFileRecordNotFound = errors.New("file record not found")

// IngestionConfig bundles the pipeline tunables.
type IngestionConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	VectorDimension int
}

type IIngestionService interface {
	// IngestDocument turns an uploaded file into searchable, embedded chunks.
	// Idempotent per file record. Processing failures are recorded on the
	// returned document (status=failed) rather than returned as errors.
	IngestDocument(ctx context.Context, fileRecordId uuid.UUID, workspaceId uuid.UUID) (*entity.KnowledgeDocument, error)
	// ActivateRetrieval appends the ai_chat capability; no-op if already active.
	ActivateRetrieval(ctx context.Context, fileRecordId uuid.UUID) (*entity.FileRecord, error)
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	blobStore         storage.BlobStore
	embeddingProvider embedding.Provider
	eventPublisher    *nats.Publisher
	logger            logger.ILogger
	config            IngestionConfig
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	blobStore storage.BlobStore,
	embeddingProvider embedding.Provider,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
	config IngestionConfig,
) IIngestionService {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = 0
	}
	return &ingestionService{
		uowFactory:        uowFactory,
		blobStore:         blobStore,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
		config:            config,
	}
}

func (s *ingestionService) IngestDocument(ctx context.Context, fileRecordId uuid.UUID, workspaceId uuid.UUID) (*entity.KnowledgeDocument, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.FileRecordRepository().FindOne(ctx, specification.ByID{ID: fileRecordId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileRecordNotFound, fileRecordId)
	}

	// Idempotency: a record already bound to a knowledge base is done.
	if record.KnowledgeBaseId != nil {
		existing, err := uow.KnowledgeDocumentRepository().FindOne(ctx,
			specification.Filter("file_record_id", record.Id),
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.logger.Info(ingestionModule, "Skipping already-ingested file record", map[string]interface{}{
				"file_record_id": record.Id,
				"document_id":    existing.Id,
			})
			return existing, nil
		}
	}

	kb, err := s.getOrCreateKnowledgeBase(ctx, uow, workspaceId)
	if err != nil {
		return nil, err
	}

	doc := &entity.KnowledgeDocument{
		Id:              uuid.New(),
		KnowledgeBaseId: kb.Id,
		FileRecordId:    record.Id,
		Filename:        record.Filename,
		SizeBytes:       record.SizeBytes,
		ContentType:     record.ContentType,
		Status:          entity.DocumentStatusUploaded,
		CreatedAt:       time.Now(),
	}
	if err := uow.KnowledgeDocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	raw, err := s.blobStore.ReadText(ctx, record.StorageKey)
	if err != nil {
		return s.markFailed(ctx, doc, fmt.Sprintf("blob read failed: %v", err))
	}
	if !utf8.Valid(raw) {
		// Data error, terminal: no partial state beyond the failed marker.
		return s.markFailed(ctx, doc, "document bytes are not valid UTF-8 text")
	}
	text := string(raw)

	chunks := chunker.Split(text, s.config.ChunkSize, s.config.ChunkOverlap)
	if len(chunks) == 0 {
		return s.markFailed(ctx, doc, "document contains no indexable text")
	}

	s.logger.Info(ingestionModule, "Generating embeddings", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(chunks),
	})

	// One batch call per document; the gateway may batch internally.
	// All-or-nothing: any failure leaves the document failed with zero chunks.
	vectors, err := s.embeddingProvider.GenerateBatch(ctx, chunks, embedding.TaskRetrievalDocument)
	if err != nil {
		return s.markFailed(ctx, doc, fmt.Sprintf("embedding generation failed: %v", err))
	}
	if len(vectors) != len(chunks) {
		return s.markFailed(ctx, doc, fmt.Sprintf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	newChunks := make([]*entity.DocumentChunk, len(chunks))
	for i, content := range chunks {
		if len(vectors[i]) != kb.Vector.Dimension {
			return s.markFailed(ctx, doc, fmt.Sprintf(
				"embedding dimension %d does not match knowledge base dimension %d",
				len(vectors[i]), kb.Vector.Dimension,
			))
		}
		newChunks[i] = &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: i,
			Content:    content,
			Embedding:  vectors[i],
			TokenCount: approximateTokens(content),
			CreatedAt:  time.Now(),
		}
	}

	if err := s.persistChunks(ctx, doc, kb, record, newChunks); err != nil {
		return s.markFailed(ctx, doc, fmt.Sprintf("chunk persistence failed: %v", err))
	}

	s.publishEvent(ctx, "DOCUMENT_INDEXED", map[string]interface{}{
		"document_id":       doc.Id,
		"knowledge_base_id": kb.Id,
		"chunk_count":       doc.ChunkCount,
	})

	return doc, nil
}

// getOrCreateKnowledgeBase resolves the workspace's single active vector
// base, creating it lazily on first ingestion. Race safety relies on
// lookup-then-insert against the store, not application locking: a loser
// of the race re-reads after a failed insert.
func (s *ingestionService) getOrCreateKnowledgeBase(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId uuid.UUID) (*entity.KnowledgeBase, error) {
	kb, err := uow.KnowledgeBaseRepository().FindActiveVector(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if kb != nil {
		return kb, nil
	}

	kb = &entity.KnowledgeBase{
		Id:          uuid.New(),
		WorkspaceId: workspaceId,
		Kind:        entity.KnowledgeBaseKindVector,
		Vector: entity.VectorConfig{
			Dimension: s.config.VectorDimension,
			Metric:    "cosine",
			IndexKind: "hnsw",
		},
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.KnowledgeBaseRepository().Create(ctx, kb); err != nil {
		// Concurrent first ingestion may have won; fall back to its base.
		existing, lookupErr := uow.KnowledgeBaseRepository().FindActiveVector(ctx, workspaceId)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	s.logger.Info(ingestionModule, "Created knowledge base", map[string]interface{}{
		"knowledge_base_id": kb.Id,
		"workspace_id":      workspaceId,
	})
	return kb, nil
}

// persistChunks runs the terminal transition in one transaction: chunks in,
// document flipped to indexed, base counter bumped, file record bound.
func (s *ingestionService) persistChunks(
	ctx context.Context,
	doc *entity.KnowledgeDocument,
	kb *entity.KnowledgeBase,
	record *entity.FileRecord,
	chunks []*entity.DocumentChunk,
) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	doc.Status = entity.DocumentStatusIndexing
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return err
	}

	now := time.Now()
	doc.Status = entity.DocumentStatusIndexed
	doc.ChunkCount = len(chunks)
	doc.UpdatedAt = &now
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	if err := uow.KnowledgeBaseRepository().IncrementDocumentCount(ctx, kb.Id, 1); err != nil {
		return err
	}

	kbId := kb.Id
	record.KnowledgeBaseId = &kbId
	if !record.HasCapability(entity.CapabilityAiChat) {
		record.Capabilities = append(record.Capabilities, entity.CapabilityAiChat)
	}
	if err := uow.FileRecordRepository().Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit()
}

// markFailed records a terminal processing failure on the document.
// The failure is visible through status polling, never thrown to callers.
func (s *ingestionService) markFailed(ctx context.Context, doc *entity.KnowledgeDocument, message string) (*entity.KnowledgeDocument, error) {
	s.logger.Error(ingestionModule, "Document ingestion failed", map[string]interface{}{
		"document_id": doc.Id,
		"error":       message,
	})

	now := time.Now()
	doc.Status = entity.DocumentStatusFailed
	doc.ErrorMessage = message
	// A late persistence failure rolls the chunk rows back; never let the
	// failed document claim chunks that were never committed.
	doc.ChunkCount = 0
	doc.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "DOCUMENT_FAILED", map[string]interface{}{
		"document_id": doc.Id,
		"error":       message,
	})

	return doc, nil
}

func (s *ingestionService) ActivateRetrieval(ctx context.Context, fileRecordId uuid.UUID) (*entity.FileRecord, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.FileRecordRepository().FindOne(ctx, specification.ByID{ID: fileRecordId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileRecordNotFound, fileRecordId)
	}

	if record.HasCapability(entity.CapabilityAiChat) {
		return record, nil // already active
	}

	record.Capabilities = append(record.Capabilities, entity.CapabilityAiChat)
	if err := uow.FileRecordRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ingestionService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Auxiliary: a failed event publish never fails the pipeline.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(ingestionModule, "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

// approximateTokens estimates token count from rune length.
// Four characters per token is close enough for quota accounting.
func approximateTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
