package specification

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"helpdesk-knowledge-be/internal/model"
)

// buildSQL renders a specification against a dry-run session so the
// generated WHERE clause can be inspected without a database.
func buildSQL(t *testing.T, spec Specification) string {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var issues []model.Issue
	stmt := spec.Apply(db.Model(&model.Issue{})).Find(&issues).Statement
	return stmt.SQL.String()
}

func TestIssueVisibilitySQL(t *testing.T) {
	callerId := uuid.New()
	workspaceId := uuid.New()

	tests := []struct {
		name        string
		spec        IssueVisibility
		wantPublic  bool
		wantWorkspc bool
		wantAuthor  bool
	}{
		{
			name: "admin sees everything",
			spec: IssueVisibility{IsAdmin: true},
		},
		{
			name:       "anonymous is public only",
			spec:       IssueVisibility{},
			wantPublic: true,
		},
		{
			name:       "public-only caller stays public",
			spec:       IssueVisibility{CallerId: &callerId, PublicOnly: true},
			wantPublic: true,
		},
		{
			name:        "caller with workspace",
			spec:        IssueVisibility{CallerId: &callerId, WorkspaceId: &workspaceId},
			wantPublic:  true,
			wantWorkspc: true,
			wantAuthor:  true,
		},
		{
			name:       "caller without workspace",
			spec:       IssueVisibility{CallerId: &callerId},
			wantPublic: true,
			wantAuthor: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := buildSQL(t, tt.spec)

			if got := strings.Contains(sql, "is_public"); got != tt.wantPublic {
				t.Errorf("is_public in clause = %v, want %v (sql: %s)", got, tt.wantPublic, sql)
			}
			if got := strings.Contains(sql, "workspace_id"); got != tt.wantWorkspc {
				t.Errorf("workspace_id in clause = %v, want %v (sql: %s)", got, tt.wantWorkspc, sql)
			}
			if got := strings.Contains(sql, "author_id"); got != tt.wantAuthor {
				t.Errorf("author_id in clause = %v, want %v (sql: %s)", got, tt.wantAuthor, sql)
			}
		})
	}
}

func TestIssueSearchQuerySQL(t *testing.T) {
	sql := buildSQL(t, IssueSearchQuery{Query: "vpn"})

	for _, column := range []string{"title", "description", "resolution"} {
		if !strings.Contains(sql, column) {
			t.Errorf("search clause must cover %s (sql: %s)", column, sql)
		}
	}
	if !strings.Contains(sql, "ILIKE") {
		t.Errorf("search must be case insensitive via ILIKE (sql: %s)", sql)
	}
}
