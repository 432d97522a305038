package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"helpdesk-knowledge-be/internal/pkg/logger"
)

const logModule = "hybrid_search"

// Orchestrator fans a query out to the keyword, vector and external sources,
// merges their scored results and caches the final response.
// The keyword source is mandatory; the other two degrade gracefully.
type Orchestrator struct {
	keyword  KeywordSearcher
	vector   VectorSearcher
	external ExternalSearcher
	cache    ResponseCache
	config   Config
	logger   logger.ILogger
}

func NewOrchestrator(
	keyword KeywordSearcher,
	vector VectorSearcher,
	external ExternalSearcher,
	cache ResponseCache,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	if config.SourceTimeout <= 0 {
		config.SourceTimeout = DefaultConfig().SourceTimeout
	}
	return &Orchestrator{
		keyword:  keyword,
		vector:   vector,
		external: external,
		cache:    cache,
		config:   config,
		logger:   log,
	}
}

// sourceOutcome tags one source's contribution so stats can report why a
// source contributed zero results instead of silently returning none.
type sourceOutcome struct {
	results []Result
	err     error
	skipped bool
}

func (o *Orchestrator) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if req.Limit <= 0 {
		req.Limit = o.config.DefaultLimit
	}

	key := CacheKey(req)
	if payload, ok := o.cache.Get(ctx, key); ok {
		var cached Response
		if err := json.Unmarshal(payload, &cached); err == nil {
			truncateResults(&cached, req.Limit)
			cached.Stats.Cached = true
			cached.Stats.ElapsedMs = time.Since(start).Milliseconds()
			return &cached, nil
		}
		o.logger.Warn(logModule, "Dropping undecodable cache entry", map[string]interface{}{"key": key})
	}

	keyword, vector, external := o.fanOut(ctx, req)

	// The keyword store is the only mandatory source.
	if keyword.err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", keyword.err)
	}

	merged := o.merge(keyword.results, vector.results, external.results)

	filtered := merged[:0]
	for _, r := range merged {
		if r.WeightedScore >= req.MinScore {
			filtered = append(filtered, r)
		}
	}

	resp := &Response{
		Results: filtered,
		Stats: Stats{
			Total: len(filtered),
			PerSource: map[Source]int{
				SourceKeyword:  len(keyword.results),
				SourceVector:   len(vector.results),
				SourceExternal: len(external.results),
			},
			Degraded:  o.degradations(vector, external),
			ElapsedMs: time.Since(start).Milliseconds(),
		},
	}

	// The limit is not part of the cache key, so the cached payload holds
	// the full merged list; truncation happens per request on the way out.
	if payload, err := json.Marshal(resp); err == nil {
		o.cache.Set(ctx, key, payload)
	}

	truncateResults(resp, req.Limit)
	return resp, nil
}

func truncateResults(resp *Response, limit int) {
	if limit > 0 && len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}
	resp.Stats.Total = len(resp.Results)
}

// fanOut runs the three sources concurrently, each under its own timeout.
// A slow or failing source never blocks or aborts the other two.
func (o *Orchestrator) fanOut(ctx context.Context, req Request) (keyword, vector, external sourceOutcome) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, o.config.SourceTimeout)
		defer cancel()
		keyword.results, keyword.err = o.keyword.Search(sctx, req)
	}()

	if req.KnowledgeBaseId != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, o.config.SourceTimeout)
			defer cancel()
			vector.results, vector.err = o.vector.Search(sctx, req.Query, *req.KnowledgeBaseId, req.Limit)
		}()
	} else {
		vector.skipped = true
	}

	if req.UseExternal && o.external != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, o.config.SourceTimeout)
			defer cancel()
			external.results, external.err = o.external.Search(sctx, req.Query)
		}()
	} else {
		external.skipped = true
	}

	wg.Wait()
	return keyword, vector, external
}

func (o *Orchestrator) merge(keyword, vector, external []Result) []Result {
	merged := make([]Result, 0, len(keyword)+len(vector)+len(external))

	appendWeighted := func(results []Result, weight float64) {
		for _, r := range results {
			r.WeightedScore = clamp01(r.RawScore) * weight
			merged = append(merged, r)
		}
	}

	// Concatenation order fixes tie-breaking: source order, then insertion order.
	appendWeighted(keyword, o.config.KeywordWeight)
	appendWeighted(vector, o.config.VectorWeight)
	appendWeighted(external, o.config.ExternalWeight)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].WeightedScore > merged[j].WeightedScore
	})

	return merged
}

func (o *Orchestrator) degradations(vector, external sourceOutcome) map[Source]string {
	degraded := make(map[Source]string)
	if vector.err != nil {
		degraded[SourceVector] = vector.err.Error()
		o.logger.Warn(logModule, "Vector source degraded", map[string]interface{}{"error": vector.err.Error()})
	}
	if external.err != nil {
		degraded[SourceExternal] = external.err.Error()
		o.logger.Warn(logModule, "External source degraded", map[string]interface{}{"error": external.err.Error()})
	}
	if len(degraded) == 0 {
		return nil
	}
	return degraded
}
