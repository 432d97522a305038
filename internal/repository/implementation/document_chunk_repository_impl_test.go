package implementation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// TestSimilarChunksQuerySQL renders the nearest-neighbor query against a
// dry-run session and checks the parts the ranking contract depends on:
// similarity computed as 1 - cosine distance, the floor applied in SQL,
// null embeddings excluded, only live indexed documents joined, and
// results ordered by similarity descending.
func TestSimilarChunksQuerySQL(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	queryVector := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
	knowledgeBaseId := uuid.New()
	minSimilarity := 0.35

	var rows []struct {
		Similarity float64
	}
	stmt := similarChunksQuery(db, queryVector, knowledgeBaseId, minSimilarity).
		Limit(5).
		Scan(&rows).Statement
	sql := stmt.SQL.String()

	for _, fragment := range []string{
		"1 - (document_chunks.embedding <=> ",
		"AS similarity",
		"JOIN knowledge_documents ON knowledge_documents.id = document_chunks.document_id",
		"knowledge_documents.knowledge_base_id = ",
		"knowledge_documents.status = ",
		"knowledge_documents.deleted_at IS NULL",
		"document_chunks.embedding IS NOT NULL",
		"ORDER BY similarity DESC",
		"LIMIT",
	} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("query missing %q (sql: %s)", fragment, sql)
		}
	}

	// The distance expression appears once in the projection and once in
	// the similarity floor.
	if got := strings.Count(sql, "document_chunks.embedding <=> "); got != 2 {
		t.Errorf("distance expression appears %d times, want 2 (sql: %s)", got, sql)
	}

	var sawFloor, sawStatus bool
	for _, v := range stmt.Vars {
		switch v {
		case minSimilarity:
			sawFloor = true
		case "indexed":
			sawStatus = true
		}
	}
	if !sawFloor {
		t.Errorf("similarity floor %v not bound (vars: %v)", minSimilarity, stmt.Vars)
	}
	if !sawStatus {
		t.Errorf("indexed status filter not bound (vars: %v)", stmt.Vars)
	}
}
