package search

import (
	"context"
	"strings"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
)

const snippetLength = 240

// KeywordSearcher is the mandatory source backed by the issue store.
type KeywordSearcher interface {
	Search(ctx context.Context, req Request) ([]Result, error)
}

type keywordSource struct {
	uowFactory unitofwork.RepositoryFactory
	config     Config
}

func NewKeywordSource(uowFactory unitofwork.RepositoryFactory, config Config) KeywordSearcher {
	return &keywordSource{
		uowFactory: uowFactory,
		config:     config,
	}
}

func (s *keywordSource) Search(ctx context.Context, req Request) ([]Result, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.IssueSearchQuery{Query: req.Query},
		specification.IssueVisibility{
			CallerId:    req.Visibility.CallerId,
			WorkspaceId: req.Visibility.WorkspaceId,
			IsAdmin:     req.Visibility.IsAdmin,
			PublicOnly:  req.Visibility.PublicOnly,
		},
	}
	if req.Filters.Status != "" {
		specs = append(specs, specification.ByIssueStatus{Status: req.Filters.Status})
	}
	if req.Filters.Tag != "" {
		specs = append(specs, specification.ByIssueTag{Tag: req.Filters.Tag})
	}
	specs = append(specs, specification.OrderBy{Field: "updated_at", Desc: true})
	if req.Limit > 0 {
		// Fetch a slack of candidates; the merge step truncates globally.
		specs = append(specs, specification.Pagination{Limit: req.Limit * 2})
	}

	issues, err := uow.IssueRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(issues))
	for _, issue := range issues {
		results = append(results, Result{
			Id:       issue.Id.String(),
			Title:    issue.Title,
			Snippet:  snippet(issue.Description),
			Source:   SourceKeyword,
			RawScore: s.score(req.Query, issue),
			Metadata: map[string]interface{}{
				"status":    issue.Status,
				"is_public": issue.IsPublic,
			},
		})
	}
	return results, nil
}

// score applies the three-tier heuristic: a title hit outranks a
// description/resolution hit, which outranks a match anywhere else
// (tags, trigram noise). Constants come from configuration.
func (s *keywordSource) score(query string, issue *entity.Issue) float64 {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return s.config.FallbackMatchScore
	}
	if strings.Contains(strings.ToLower(issue.Title), needle) {
		return s.config.TitleMatchScore
	}
	if strings.Contains(strings.ToLower(issue.Description), needle) ||
		strings.Contains(strings.ToLower(issue.Resolution), needle) {
		return s.config.DescriptionMatchScore
	}
	return s.config.FallbackMatchScore
}

func snippet(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= snippetLength {
		return string(runes)
	}
	return string(runes[:snippetLength]) + "…"
}
