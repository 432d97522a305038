package search

import (
	"context"

	"helpdesk-knowledge-be/pkg/smartsearch"
)

// ExternalSearcher is the opaque scored-result source.
type ExternalSearcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type externalSource struct {
	client smartsearch.Client
	config Config
}

func NewExternalSource(client smartsearch.Client, config Config) ExternalSearcher {
	return &externalSource{
		client: client,
		config: config,
	}
}

func (s *externalSource) Search(ctx context.Context, query string) ([]Result, error) {
	hits, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		raw := s.config.DefaultExternalScore
		if hit.Score != nil {
			raw = clamp01(*hit.Score)
		}
		results = append(results, Result{
			Id:       hit.Id,
			Title:    hit.Title,
			Snippet:  snippet(hit.Content),
			Source:   SourceExternal,
			RawScore: raw,
			Metadata: hit.Metadata,
		})
	}
	return results, nil
}
