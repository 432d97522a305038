package service

import (
	"context"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/pkg/search"
)

type ISearchService interface {
	Search(ctx context.Context, req dto.SearchRequest, visibility search.Visibility) (*dto.SearchResponse, error)
}

type searchService struct {
	orchestrator *search.Orchestrator
}

func NewSearchService(orchestrator *search.Orchestrator) ISearchService {
	return &searchService{
		orchestrator: orchestrator,
	}
}

func (s *searchService) Search(ctx context.Context, req dto.SearchRequest, visibility search.Visibility) (*dto.SearchResponse, error) {
	// Anonymous callers always search public issues only, whatever was asked.
	if visibility.CallerId == nil && !visibility.IsAdmin {
		visibility.PublicOnly = true
	}

	knowledgeBaseId := req.KnowledgeBaseId
	if knowledgeBaseId != nil && *knowledgeBaseId == uuid.Nil {
		knowledgeBaseId = nil
	}

	res, err := s.orchestrator.Search(ctx, search.Request{
		Query:           req.Query,
		Visibility:      visibility,
		KnowledgeBaseId: knowledgeBaseId,
		UseExternal:     req.UseExternal,
		Limit:           req.Limit,
		MinScore:        req.MinScore,
		Filters: search.Filters{
			Status: req.Status,
			Tag:    req.Tag,
		},
	})
	if err != nil {
		return nil, err
	}

	return toSearchResponse(res), nil
}

func toSearchResponse(res *search.Response) *dto.SearchResponse {
	items := make([]dto.SearchResultItem, 0, len(res.Results))
	for _, r := range res.Results {
		items = append(items, dto.SearchResultItem{
			Id:            r.Id,
			Title:         r.Title,
			Snippet:       r.Snippet,
			Source:        string(r.Source),
			Score:         r.RawScore,
			WeightedScore: r.WeightedScore,
			Metadata:      r.Metadata,
		})
	}

	perSource := make(map[string]int, len(res.Stats.PerSource))
	for src, n := range res.Stats.PerSource {
		perSource[string(src)] = n
	}

	var degraded map[string]string
	if len(res.Stats.Degraded) > 0 {
		degraded = make(map[string]string, len(res.Stats.Degraded))
		for src, reason := range res.Stats.Degraded {
			degraded[string(src)] = reason
		}
	}

	return &dto.SearchResponse{
		Results: items,
		Stats: dto.SearchStats{
			Total:           res.Stats.Total,
			PerSourceCounts: perSource,
			DegradedSources: degraded,
			ElapsedMs:       res.Stats.ElapsedMs,
			Cached:          res.Stats.Cached,
		},
	}
}
