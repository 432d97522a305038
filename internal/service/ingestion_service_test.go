package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/contract"
	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
	"helpdesk-knowledge-be/pkg/embedding"
)

// ---- in-memory fakes -------------------------------------------------------

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeBlobStore struct {
	blobs map[string][]byte
}

func (f *fakeBlobStore) ReadText(_ context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", key)
	}
	return data, nil
}

func (f *fakeBlobStore) Write(_ context.Context, key string, data []byte) error {
	f.blobs[key] = data
	return nil
}

type fakeEmbedder struct {
	dimension int
	err       error
	batches   int
}

func (f *fakeEmbedder) Generate(_ context.Context, text string, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dimension), nil
}

func (f *fakeEmbedder) GenerateBatch(_ context.Context, texts []string, _ string) ([][]float32, error) {
	f.batches++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, f.dimension)
	}
	return vectors, nil
}

// memoryStore backs every fake repository in one struct so a single test
// can assert across entities.
type memoryStore struct {
	fileRecords map[uuid.UUID]*entity.FileRecord
	bases       map[uuid.UUID]*entity.KnowledgeBase
	documents   map[uuid.UUID]*entity.KnowledgeDocument
	chunks      map[uuid.UUID][]*entity.DocumentChunk // by document id
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		fileRecords: map[uuid.UUID]*entity.FileRecord{},
		bases:       map[uuid.UUID]*entity.KnowledgeBase{},
		documents:   map[uuid.UUID]*entity.KnowledgeDocument{},
		chunks:      map[uuid.UUID][]*entity.DocumentChunk{},
	}
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type fakeFileRecordRepo struct{ store *memoryStore }

func (r *fakeFileRecordRepo) Create(_ context.Context, record *entity.FileRecord) error {
	r.store.fileRecords[record.Id] = record
	return nil
}

func (r *fakeFileRecordRepo) Update(_ context.Context, record *entity.FileRecord) error {
	r.store.fileRecords[record.Id] = record
	return nil
}

func (r *fakeFileRecordRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.FileRecord, error) {
	if id, ok := specID(specs); ok {
		return r.store.fileRecords[id], nil
	}
	return nil, nil
}

type fakeKnowledgeBaseRepo struct {
	store        *memoryStore
	createErr    error
	incrementErr error
}

func (r *fakeKnowledgeBaseRepo) Create(_ context.Context, kb *entity.KnowledgeBase) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.store.bases[kb.Id] = kb
	return nil
}

func (r *fakeKnowledgeBaseRepo) Update(_ context.Context, kb *entity.KnowledgeBase) error {
	r.store.bases[kb.Id] = kb
	return nil
}

func (r *fakeKnowledgeBaseRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.KnowledgeBase, error) {
	id, ok := specID(specs)
	if !ok {
		return nil, nil
	}
	kb := r.store.bases[id]
	if kb == nil {
		return nil, nil
	}
	for _, s := range specs {
		if filter, ok := s.(specification.FilterBy); ok && filter.Field == "workspace_id" {
			if kb.WorkspaceId != filter.Value.(uuid.UUID) {
				return nil, nil
			}
		}
	}
	return kb, nil
}

func (r *fakeKnowledgeBaseRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.KnowledgeBase, error) {
	bases := make([]*entity.KnowledgeBase, 0, len(r.store.bases))
	for _, kb := range r.store.bases {
		bases = append(bases, kb)
	}
	return bases, nil
}

func (r *fakeKnowledgeBaseRepo) FindActiveVector(_ context.Context, workspaceId uuid.UUID) (*entity.KnowledgeBase, error) {
	for _, kb := range r.store.bases {
		if kb.WorkspaceId == workspaceId && kb.Kind == entity.KnowledgeBaseKindVector && kb.IsActive {
			return kb, nil
		}
	}
	return nil, nil
}

func (r *fakeKnowledgeBaseRepo) IncrementDocumentCount(_ context.Context, id uuid.UUID, delta int) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	kb, ok := r.store.bases[id]
	if !ok {
		return fmt.Errorf("knowledge base not found: %s", id)
	}
	kb.DocumentCount += delta
	return nil
}

func (r *fakeKnowledgeBaseRepo) DeactivateByWorkspace(_ context.Context, workspaceId uuid.UUID) error {
	for _, kb := range r.store.bases {
		if kb.WorkspaceId == workspaceId {
			kb.IsActive = false
		}
	}
	return nil
}

type fakeKnowledgeDocumentRepo struct{ store *memoryStore }

func (r *fakeKnowledgeDocumentRepo) Create(_ context.Context, doc *entity.KnowledgeDocument) error {
	r.store.documents[doc.Id] = doc
	return nil
}

func (r *fakeKnowledgeDocumentRepo) Update(_ context.Context, doc *entity.KnowledgeDocument) error {
	r.store.documents[doc.Id] = doc
	return nil
}

func (r *fakeKnowledgeDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.documents, id)
	return nil
}

func (r *fakeKnowledgeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error) {
	if id, ok := specID(specs); ok {
		return r.store.documents[id], nil
	}
	for _, s := range specs {
		if filter, ok := s.(specification.FilterBy); ok && filter.Field == "file_record_id" {
			for _, doc := range r.store.documents {
				if doc.FileRecordId == filter.Value.(uuid.UUID) {
					return doc, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeKnowledgeDocumentRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.KnowledgeDocument, error) {
	docs := make([]*entity.KnowledgeDocument, 0, len(r.store.documents))
	for _, doc := range r.store.documents {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *fakeKnowledgeDocumentRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.store.documents)), nil
}

type fakeDocumentChunkRepo struct{ store *memoryStore }

func (r *fakeDocumentChunkRepo) CreateBulk(_ context.Context, chunks []*entity.DocumentChunk) error {
	for _, c := range chunks {
		r.store.chunks[c.DocumentId] = append(r.store.chunks[c.DocumentId], c)
	}
	return nil
}

func (r *fakeDocumentChunkRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	delete(r.store.chunks, documentId)
	return nil
}

func (r *fakeDocumentChunkRepo) CountByDocumentId(_ context.Context, documentId uuid.UUID) (int64, error) {
	return int64(len(r.store.chunks[documentId])), nil
}

func (r *fakeDocumentChunkRepo) SearchSimilarWithScore(_ context.Context, _ []float32, _ uuid.UUID, _ int, _ float64) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	store     *memoryStore
	kbRepo    *fakeKnowledgeBaseRepo
	inTx      bool
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	u.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.inTx {
		return errors.New("no transaction to rollback")
	}
	u.inTx = false
	u.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) WorkspaceRepository() contract.WorkspaceRepository { return nil }
func (u *fakeUnitOfWork) IssueRepository() contract.IssueRepository         { return nil }
func (u *fakeUnitOfWork) FileRecordRepository() contract.FileRecordRepository {
	return &fakeFileRecordRepo{store: u.store}
}
func (u *fakeUnitOfWork) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return u.kbRepo
}
func (u *fakeUnitOfWork) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return &fakeKnowledgeDocumentRepo{store: u.store}
}
func (u *fakeUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &fakeDocumentChunkRepo{store: u.store}
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// ---- fixtures --------------------------------------------------------------

const testDimension = 8

type ingestFixture struct {
	store    *memoryStore
	uow      *fakeUnitOfWork
	blobs    *fakeBlobStore
	embedder *fakeEmbedder
	service  IIngestionService
	record   *entity.FileRecord
}

func newIngestFixture(t *testing.T, content []byte) *ingestFixture {
	t.Helper()

	store := newMemoryStore()
	uow := &fakeUnitOfWork{store: store, kbRepo: &fakeKnowledgeBaseRepo{store: store}}
	blobs := &fakeBlobStore{blobs: map[string][]byte{}}
	embedder := &fakeEmbedder{dimension: testDimension}

	record := &entity.FileRecord{
		Id:          uuid.New(),
		WorkspaceId: uuid.New(),
		Filename:    "runbook.md",
		SizeBytes:   int64(len(content)),
		ContentType: "text/markdown",
		StorageKey:  "runbook.md",
	}
	store.fileRecords[record.Id] = record
	blobs.blobs[record.StorageKey] = content

	svc := NewIngestionService(
		&fakeUowFactory{uow: uow},
		blobs,
		embedder,
		nil,
		noopLogger{},
		IngestionConfig{ChunkSize: 100, ChunkOverlap: 20, VectorDimension: testDimension},
	)

	return &ingestFixture{
		store:    store,
		uow:      uow,
		blobs:    blobs,
		embedder: embedder,
		service:  svc,
		record:   record,
	}
}

// ---- tests -----------------------------------------------------------------

func TestIngestDocumentSuccess(t *testing.T) {
	content := []byte("Restart the VPN service first. If users still cannot connect, rotate the certificates. Escalate to networking when both steps fail and document the incident number.")
	fx := newIngestFixture(t, content)
	ctx := context.Background()

	doc, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Status != entity.DocumentStatusIndexed {
		t.Fatalf("status = %s, want indexed (%s)", doc.Status, doc.ErrorMessage)
	}
	if doc.ChunkCount == 0 {
		t.Fatal("indexed document must have chunks")
	}
	if got := len(fx.store.chunks[doc.Id]); got != doc.ChunkCount {
		t.Errorf("stored %d chunks, document says %d", got, doc.ChunkCount)
	}
	for i, c := range fx.store.chunks[doc.Id] {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if len(c.Embedding) != testDimension {
			t.Errorf("chunk %d embedding dimension = %d, want %d", i, len(c.Embedding), testDimension)
		}
	}
	if fx.embedder.batches != 1 {
		t.Errorf("embedder ran %d batches, want 1", fx.embedder.batches)
	}

	kb := fx.store.bases[doc.KnowledgeBaseId]
	if kb == nil {
		t.Fatal("knowledge base was not created")
	}
	if kb.DocumentCount != 1 {
		t.Errorf("knowledge base document count = %d, want 1", kb.DocumentCount)
	}
	if kb.Vector.Dimension != testDimension {
		t.Errorf("knowledge base dimension = %d, want %d", kb.Vector.Dimension, testDimension)
	}

	record := fx.store.fileRecords[fx.record.Id]
	if record.KnowledgeBaseId == nil || *record.KnowledgeBaseId != kb.Id {
		t.Error("file record must be bound to the knowledge base")
	}
	if !record.HasCapability(entity.CapabilityAiChat) {
		t.Error("file record must gain the ai_chat capability")
	}
}

func TestIngestDocumentIdempotent(t *testing.T) {
	fx := newIngestFixture(t, []byte("Short but valid document body for repeated ingestion."))
	ctx := context.Background()

	first, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatal(err)
	}

	second, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatal(err)
	}

	if second.Id != first.Id {
		t.Error("repeated ingestion must return the existing document")
	}
	if fx.embedder.batches != 1 {
		t.Errorf("embedder ran %d batches, want 1", fx.embedder.batches)
	}
	if len(fx.store.documents) != 1 {
		t.Errorf("store holds %d documents, want 1", len(fx.store.documents))
	}
	if kb := fx.store.bases[first.KnowledgeBaseId]; kb.DocumentCount != 1 {
		t.Errorf("document count = %d, want 1", kb.DocumentCount)
	}
}

func TestIngestDocumentEmbeddingFailure(t *testing.T) {
	fx := newIngestFixture(t, []byte("A perfectly fine document whose embeddings will not arrive."))
	fx.embedder.err = fmt.Errorf("model overloaded: %w", embedding.ErrProviderUnavailable)
	ctx := context.Background()

	doc, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatalf("processing failures are recorded, not returned: %v", err)
	}

	if doc.Status != entity.DocumentStatusFailed {
		t.Fatalf("status = %s, want failed", doc.Status)
	}
	if doc.ErrorMessage == "" {
		t.Error("failed document must carry an error message")
	}
	if len(fx.store.chunks[doc.Id]) != 0 {
		t.Error("failed ingestion must leave zero chunks")
	}
	if record := fx.store.fileRecords[fx.record.Id]; record.KnowledgeBaseId != nil {
		t.Error("failed ingestion must not bind the file record")
	}
}

func TestIngestDocumentLatePersistenceFailure(t *testing.T) {
	fx := newIngestFixture(t, []byte("Reset the badge reader, then re-enroll the badge in the access portal."))
	fx.uow.kbRepo.incrementErr = errors.New("deadlock detected")
	ctx := context.Background()

	doc, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatalf("processing failures are recorded, not returned: %v", err)
	}

	// The transaction rolled back after the bulk insert; the failed
	// document must not claim the chunks that never committed.
	if doc.Status != entity.DocumentStatusFailed {
		t.Fatalf("status = %s, want failed", doc.Status)
	}
	if doc.ChunkCount != 0 {
		t.Errorf("failed document claims %d chunks, want 0", doc.ChunkCount)
	}
	if doc.ErrorMessage == "" {
		t.Error("failed document must carry an error message")
	}

	stored := fx.store.documents[doc.Id]
	if stored == nil {
		t.Fatal("failed document was not persisted")
	}
	if stored.Status != entity.DocumentStatusFailed || stored.ChunkCount != 0 {
		t.Errorf("persisted document status=%s chunkCount=%d, want failed with 0", stored.Status, stored.ChunkCount)
	}

	if fx.uow.rollbacks == 0 {
		t.Error("failed transaction must roll back")
	}
	if record := fx.store.fileRecords[fx.record.Id]; record.KnowledgeBaseId != nil {
		t.Error("failed ingestion must not bind the file record")
	}
}

func TestIngestDocumentInvalidUTF8(t *testing.T) {
	fx := newIngestFixture(t, []byte{0xff, 0xfe, 0x00, 0x01})
	ctx := context.Background()

	doc, err := fx.service.IngestDocument(ctx, fx.record.Id, fx.record.WorkspaceId)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Status != entity.DocumentStatusFailed {
		t.Fatalf("status = %s, want failed", doc.Status)
	}
	if len(fx.store.chunks[doc.Id]) != 0 {
		t.Error("invalid input must leave zero chunks")
	}
}

func TestIngestDocumentUnknownRecord(t *testing.T) {
	fx := newIngestFixture(t, []byte("irrelevant"))

	_, err := fx.service.IngestDocument(context.Background(), uuid.New(), fx.record.WorkspaceId)
	if !errors.Is(err, ErrFileRecordNotFound) {
		t.Fatalf("got %v, want ErrFileRecordNotFound", err)
	}
}

func TestActivateRetrieval(t *testing.T) {
	fx := newIngestFixture(t, []byte("irrelevant"))
	ctx := context.Background()

	record, err := fx.service.ActivateRetrieval(ctx, fx.record.Id)
	if err != nil {
		t.Fatal(err)
	}
	if !record.HasCapability(entity.CapabilityAiChat) {
		t.Fatal("capability missing after activation")
	}

	// Second call must not duplicate the capability.
	record, err = fx.service.ActivateRetrieval(ctx, fx.record.Id)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, c := range record.Capabilities {
		if c == entity.CapabilityAiChat {
			count++
		}
	}
	if count != 1 {
		t.Errorf("capability appears %d times, want 1", count)
	}
}
