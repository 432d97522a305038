package search

import (
	"strings"
	"testing"

	"helpdesk-knowledge-be/internal/entity"
)

func TestKeywordScoreTiers(t *testing.T) {
	src := &keywordSource{config: DefaultConfig()}

	issue := &entity.Issue{
		Title:       "VPN drops every hour",
		Description: "Users report intermittent disconnects from the corporate network",
		Resolution:  "Updated the client to 4.2 and rotated certificates",
	}

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"title match", "vpn drops", 1.0},
		{"title match is case insensitive", "VPN DROPS", 1.0},
		{"description match", "intermittent disconnects", 0.8},
		{"resolution match", "rotated certificates", 0.8},
		{"no direct match falls back", "kerberos", 0.6},
		{"empty query falls back", "   ", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := src.score(tt.query, issue); got != tt.want {
				t.Errorf("score(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSnippetTruncation(t *testing.T) {
	short := "printer jams on tray two"
	if got := snippet("  " + short + "  "); got != short {
		t.Errorf("short text must be trimmed only: got %q", got)
	}

	long := strings.Repeat("ю", snippetLength+50)
	got := snippet(long)
	runes := []rune(got)
	if len(runes) != snippetLength+1 {
		t.Fatalf("got %d runes, want %d plus ellipsis", len(runes), snippetLength)
	}
	if runes[len(runes)-1] != '…' {
		t.Error("truncated snippet must end with an ellipsis")
	}
}
