package dto

import (
	"github.com/google/uuid"
)

type SearchRequest struct {
	Query           string     `json:"query" validate:"required"`
	KnowledgeBaseId *uuid.UUID `json:"knowledge_base_id,omitempty"`
	UseExternal     bool       `json:"use_external"`
	Limit           int        `json:"limit" validate:"gte=0,lte=100"`
	MinScore        float64    `json:"min_score" validate:"gte=0,lte=1"`
	Status          string     `json:"status,omitempty"`
	Tag             string     `json:"tag,omitempty"`
}

type SearchResultItem struct {
	Id            string                 `json:"id"`
	Title         string                 `json:"title"`
	Snippet       string                 `json:"snippet"`
	Source        string                 `json:"source"`
	Score         float64                `json:"score"`
	WeightedScore float64                `json:"weighted_score"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type SearchStats struct {
	Total           int               `json:"total"`
	PerSourceCounts map[string]int    `json:"per_source_counts"`
	DegradedSources map[string]string `json:"degraded_sources,omitempty"`
	ElapsedMs       int64             `json:"elapsed_ms"`
	Cached          bool              `json:"cached"`
}

type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Stats   SearchStats        `json:"stats"`
}
