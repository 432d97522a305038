package search

import (
	"time"

	"github.com/google/uuid"
)

// Source tags results by the retrieval source that produced them.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceVector   Source = "vector"
	SourceExternal Source = "external"
)

// Visibility is the caller's scope, used both to filter the keyword
// source and to partition the result cache.
type Visibility struct {
	CallerId    *uuid.UUID `json:"caller_id,omitempty"`
	WorkspaceId *uuid.UUID `json:"workspace_id,omitempty"`
	IsAdmin     bool       `json:"is_admin,omitempty"`
	PublicOnly  bool       `json:"public_only,omitempty"`
}

// IsPublicOnly reports whether the caller may only see public items.
func (v Visibility) IsPublicOnly() bool {
	return v.PublicOnly || (v.CallerId == nil && !v.IsAdmin)
}

// Filters narrows the keyword source.
type Filters struct {
	Status string `json:"status,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

type Request struct {
	Query           string
	Visibility      Visibility
	KnowledgeBaseId *uuid.UUID
	UseExternal     bool
	Limit           int
	MinScore        float64
	Filters         Filters
}

type Result struct {
	Id            string                 `json:"id"`
	Title         string                 `json:"title"`
	Snippet       string                 `json:"snippet"`
	Source        Source                 `json:"source"`
	RawScore      float64                `json:"raw_score"`
	WeightedScore float64                `json:"weighted_score"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type Stats struct {
	Total     int               `json:"total"`
	PerSource map[Source]int    `json:"per_source_counts"`
	Degraded  map[Source]string `json:"degraded_sources,omitempty"`
	ElapsedMs int64             `json:"elapsed_ms"`
	Cached    bool              `json:"cached"`
}

type Response struct {
	Results []Result `json:"results"`
	Stats   Stats    `json:"stats"`
}

// Config carries the orchestrator tunables. All of it comes from env config;
// none of the weight constants is a correctness requirement.
type Config struct {
	KeywordWeight  float64
	VectorWeight   float64
	ExternalWeight float64

	TitleMatchScore       float64
	DescriptionMatchScore float64
	FallbackMatchScore    float64
	DefaultExternalScore  float64

	MinSimilarity float64
	DefaultLimit  int

	SourceTimeout time.Duration
	CacheTTL      time.Duration
}

// DefaultConfig returns the documented default scoring configuration.
func DefaultConfig() Config {
	return Config{
		KeywordWeight:  1.0,
		VectorWeight:   0.8,
		ExternalWeight: 0.6,

		TitleMatchScore:       1.0,
		DescriptionMatchScore: 0.8,
		FallbackMatchScore:    0.6,
		DefaultExternalScore:  0.5,

		MinSimilarity: 0.35,
		DefaultLimit:  20,

		SourceTimeout: 5 * time.Second,
		CacheTTL:      300 * time.Second,
	}
}
