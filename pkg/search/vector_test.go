package search

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/contract"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
)

type stubChunkRepo struct {
	scored    []*contract.ScoredChunk
	gotKbId   uuid.UUID
	gotLimit  int
	gotMinSim float64
}

func (r *stubChunkRepo) CreateBulk(_ context.Context, _ []*entity.DocumentChunk) error { return nil }
func (r *stubChunkRepo) DeleteByDocumentId(_ context.Context, _ uuid.UUID) error       { return nil }
func (r *stubChunkRepo) CountByDocumentId(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *stubChunkRepo) SearchSimilarWithScore(_ context.Context, _ []float32, knowledgeBaseId uuid.UUID, limit int, minSimilarity float64) ([]*contract.ScoredChunk, error) {
	r.gotKbId = knowledgeBaseId
	r.gotLimit = limit
	r.gotMinSim = minSimilarity
	return r.scored, nil
}

type stubChunkUow struct {
	chunks *stubChunkRepo
}

func (u *stubChunkUow) Begin(_ context.Context) error { return nil }
func (u *stubChunkUow) Commit() error                 { return nil }
func (u *stubChunkUow) Rollback() error               { return nil }

func (u *stubChunkUow) WorkspaceRepository() contract.WorkspaceRepository   { return nil }
func (u *stubChunkUow) IssueRepository() contract.IssueRepository           { return nil }
func (u *stubChunkUow) FileRecordRepository() contract.FileRecordRepository { return nil }
func (u *stubChunkUow) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return nil
}
func (u *stubChunkUow) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return nil
}
func (u *stubChunkUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunks
}

type stubChunkUowFactory struct {
	uow *stubChunkUow
}

func (f *stubChunkUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubQueryEmbedder struct{}

func (stubQueryEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (stubQueryEmbedder) GenerateBatch(_ context.Context, texts []string, _ string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func scoredChunk(similarity float64, filename, content string) *contract.ScoredChunk {
	docId := uuid.New()
	return &contract.ScoredChunk{
		Chunk: &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: docId,
			Content:    content,
		},
		DocumentId: docId,
		Filename:   filename,
		Similarity: similarity,
	}
}

func TestVectorSearchPreservesStoreOrder(t *testing.T) {
	repo := &stubChunkRepo{
		scored: []*contract.ScoredChunk{
			scoredChunk(0.91, "vpn.md", "Restart the VPN client."),
			scoredChunk(0.48, "vpn.md", "Check certificate expiry."),
			scoredChunk(0.36, "badge.md", "Re-enroll the badge."),
		},
	}
	source := NewVectorSource(
		&stubChunkUowFactory{uow: &stubChunkUow{chunks: repo}},
		stubQueryEmbedder{},
		DefaultConfig(),
	)

	kbId := uuid.New()
	results, err := source.Search(context.Background(), "vpn broken", kbId, 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantScores := []float64{0.91, 0.48, 0.36}
	for i, r := range results {
		if r.Source != SourceVector {
			t.Errorf("result %d source = %s, want %s", i, r.Source, SourceVector)
		}
		if r.RawScore != wantScores[i] {
			t.Errorf("result %d score = %v, want %v (store order must be preserved)", i, r.RawScore, wantScores[i])
		}
	}

	if repo.gotKbId != kbId {
		t.Errorf("queried knowledge base %s, want %s", repo.gotKbId, kbId)
	}
	if repo.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", repo.gotLimit)
	}
	if repo.gotMinSim != DefaultConfig().MinSimilarity {
		t.Errorf("min similarity = %v, want %v", repo.gotMinSim, DefaultConfig().MinSimilarity)
	}
}

func TestVectorSearchClampsScores(t *testing.T) {
	repo := &stubChunkRepo{
		scored: []*contract.ScoredChunk{
			scoredChunk(1.02, "a.md", "float drift above one"),
			scoredChunk(-0.2, "b.md", "opposite direction vector"),
		},
	}
	source := NewVectorSource(
		&stubChunkUowFactory{uow: &stubChunkUow{chunks: repo}},
		stubQueryEmbedder{},
		DefaultConfig(),
	)

	results, err := source.Search(context.Background(), "anything", uuid.New(), 5)
	if err != nil {
		t.Fatal(err)
	}

	if results[0].RawScore != 1.0 {
		t.Errorf("score above 1 must clamp to 1, got %v", results[0].RawScore)
	}
	if results[1].RawScore != 0.0 {
		t.Errorf("negative similarity must clamp to 0, got %v", results[1].RawScore)
	}
	// The unclamped similarity survives in metadata for diagnostics.
	if got := results[1].Metadata["similarity"]; got != -0.2 {
		t.Errorf("metadata similarity = %v, want -0.2", got)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}
	for _, c := range cases {
		if got := clamp01(c.in); got != c.want {
			t.Errorf("clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
