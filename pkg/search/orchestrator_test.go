package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeKeyword struct {
	results []Result
	err     error
	calls   int
}

func (f *fakeKeyword) Search(ctx context.Context, req Request) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

type fakeVector struct {
	results []Result
	err     error
	calls   int
}

func (f *fakeVector) Search(ctx context.Context, query string, knowledgeBaseId uuid.UUID, limit int) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

type fakeExternal struct {
	results []Result
	err     error
	calls   int
}

func (f *fakeExternal) Search(ctx context.Context, query string) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

func keywordResult(title string, raw float64) Result {
	return Result{Id: uuid.NewString(), Title: title, Source: SourceKeyword, RawScore: raw}
}

func vectorResult(title string, raw float64) Result {
	return Result{Id: uuid.NewString(), Title: title, Source: SourceVector, RawScore: raw}
}

func externalResult(title string, raw float64) Result {
	return Result{Id: uuid.NewString(), Title: title, Source: SourceExternal, RawScore: raw}
}

func newTestOrchestrator(k KeywordSearcher, v VectorSearcher, e ExternalSearcher) *Orchestrator {
	cfg := DefaultConfig()
	cfg.SourceTimeout = time.Second
	return NewOrchestrator(k, v, e, NewMemoryCache(time.Minute), cfg, noopLogger{})
}

func TestSearchMergeWeighting(t *testing.T) {
	kbId := uuid.New()
	keyword := &fakeKeyword{results: []Result{keywordResult("VPN drops hourly", 1.0)}}
	vector := &fakeVector{results: []Result{vectorResult("vpn-troubleshooting.md", 1.0)}}
	external := &fakeExternal{results: []Result{externalResult("KB-1031", 1.0)}}

	o := newTestOrchestrator(keyword, vector, external)
	resp, err := o.Search(context.Background(), Request{
		Query:           "vpn",
		KnowledgeBaseId: &kbId,
		UseExternal:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Results))
	}

	// Equal raw scores: keyword (x1.0) outranks vector (x0.8) outranks external (x0.6).
	wantOrder := []Source{SourceKeyword, SourceVector, SourceExternal}
	for i, want := range wantOrder {
		if resp.Results[i].Source != want {
			t.Errorf("position %d: got %s, want %s", i, resp.Results[i].Source, want)
		}
	}

	if got := resp.Results[0].WeightedScore; got != 1.0 {
		t.Errorf("keyword weighted score = %v, want 1.0", got)
	}
	if got := resp.Results[1].WeightedScore; got != 0.8 {
		t.Errorf("vector weighted score = %v, want 0.8", got)
	}
	if got := resp.Results[2].WeightedScore; got != 0.6 {
		t.Errorf("external weighted score = %v, want 0.6", got)
	}
}

func TestSearchStableOrderOnTies(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{
		keywordResult("first", 0.8),
		keywordResult("second", 0.8),
	}}
	vector := &fakeVector{results: []Result{vectorResult("third", 1.0)}}
	kbId := uuid.New()

	o := newTestOrchestrator(keyword, vector, &fakeExternal{})
	resp, err := o.Search(context.Background(), Request{Query: "q", KnowledgeBaseId: &kbId})
	if err != nil {
		t.Fatal(err)
	}

	// All three land on 0.8: two keyword hits at raw 0.8, one vector hit at
	// raw 1.0 x 0.8. Keyword results keep their insertion order and precede
	// the vector result.
	if len(resp.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Results))
	}
	wantTitles := []string{"first", "second", "third"}
	for i, want := range wantTitles {
		if resp.Results[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, resp.Results[i].Title, want)
		}
	}
}

func TestSearchKeywordOnly(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{keywordResult("ошибка E401 при входе", 1.0)}}
	vector := &fakeVector{}
	external := &fakeExternal{}

	o := newTestOrchestrator(keyword, vector, external)
	resp, err := o.Search(context.Background(), Request{Query: "ошибка E401"})
	if err != nil {
		t.Fatal(err)
	}

	if vector.calls != 0 {
		t.Error("vector source must not run without a knowledge base id")
	}
	if external.calls != 0 {
		t.Error("external source must not run unless requested")
	}
	if resp.Stats.PerSource[SourceVector] != 0 || resp.Stats.PerSource[SourceExternal] != 0 {
		t.Errorf("skipped sources must report zero counts: %v", resp.Stats.PerSource)
	}
	if resp.Stats.PerSource[SourceKeyword] != 1 {
		t.Errorf("keyword count = %d, want 1", resp.Stats.PerSource[SourceKeyword])
	}
	if len(resp.Stats.Degraded) != 0 {
		t.Errorf("skipped sources are not degraded: %v", resp.Stats.Degraded)
	}
}

func TestSearchDegradedSources(t *testing.T) {
	kbId := uuid.New()
	keyword := &fakeKeyword{results: []Result{keywordResult("hit", 1.0)}}
	vector := &fakeVector{err: errors.New("pgvector down")}
	external := &fakeExternal{err: errors.New("upstream 503")}

	o := newTestOrchestrator(keyword, vector, external)
	resp, err := o.Search(context.Background(), Request{
		Query:           "q",
		KnowledgeBaseId: &kbId,
		UseExternal:     true,
	})
	if err != nil {
		t.Fatalf("degraded sources must not fail the search: %v", err)
	}

	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want the keyword hit only", len(resp.Results))
	}
	if resp.Stats.Degraded[SourceVector] == "" {
		t.Error("vector degradation missing from stats")
	}
	if resp.Stats.Degraded[SourceExternal] == "" {
		t.Error("external degradation missing from stats")
	}
}

func TestSearchKeywordFailureIsFatal(t *testing.T) {
	keyword := &fakeKeyword{err: errors.New("db down")}

	o := newTestOrchestrator(keyword, &fakeVector{}, &fakeExternal{})
	if _, err := o.Search(context.Background(), Request{Query: "q"}); err == nil {
		t.Fatal("keyword failure must fail the whole search")
	}
}

func TestSearchMinScoreAndLimit(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{
		keywordResult("high", 1.0),
		keywordResult("mid", 0.8),
		keywordResult("low", 0.3),
	}}

	o := newTestOrchestrator(keyword, &fakeVector{}, &fakeExternal{})
	resp, err := o.Search(context.Background(), Request{Query: "q", MinScore: 0.5, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1 after threshold and limit", len(resp.Results))
	}
	if resp.Results[0].Title != "high" {
		t.Errorf("got %q, want the top result", resp.Results[0].Title)
	}
	if resp.Stats.Total != 1 {
		t.Errorf("stats total = %d, want 1", resp.Stats.Total)
	}
}

func TestSearchCacheHit(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{keywordResult("hit", 1.0)}}

	o := newTestOrchestrator(keyword, &fakeVector{}, &fakeExternal{})
	req := Request{Query: "vpn", Visibility: Visibility{PublicOnly: true}}

	first, err := o.Search(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.Cached {
		t.Error("first call must not be served from cache")
	}

	second, err := o.Search(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Stats.Cached {
		t.Error("second identical call must be served from cache")
	}
	if keyword.calls != 1 {
		t.Errorf("keyword source ran %d times, want 1", keyword.calls)
	}
	if len(second.Results) != len(first.Results) {
		t.Error("cached response must carry the same results")
	}
}

func TestSearchCachedEntryServesLargerLimit(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{
		keywordResult("first", 1.0),
		keywordResult("second", 0.9),
		keywordResult("third", 0.8),
	}}

	o := newTestOrchestrator(keyword, &fakeVector{}, &fakeExternal{})
	req := Request{Query: "vpn", Visibility: Visibility{PublicOnly: true}}

	req.Limit = 1
	first, err := o.Search(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Results) != 1 || first.Stats.Total != 1 {
		t.Fatalf("limit 1 returned %d results (total %d), want 1", len(first.Results), first.Stats.Total)
	}

	// The cached payload holds the untruncated merged list, so widening
	// the limit within the TTL must not replay the narrow first page.
	req.Limit = 3
	second, err := o.Search(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Stats.Cached {
		t.Fatal("limit is excluded from the key, second call must hit the cache")
	}
	if len(second.Results) != 3 || second.Stats.Total != 3 {
		t.Errorf("limit 3 returned %d results (total %d), want 3", len(second.Results), second.Stats.Total)
	}
	if keyword.calls != 1 {
		t.Errorf("keyword source ran %d times, want 1", keyword.calls)
	}
}

func TestSearchZeroTimeoutConfig(t *testing.T) {
	keyword := &deadlineKeyword{results: []Result{keywordResult("hit", 1.0)}}

	// A hand-built config without a source timeout must not start every
	// source with an already-expired context.
	cfg := Config{KeywordWeight: 1.0, DefaultLimit: 10}
	o := NewOrchestrator(keyword, &fakeVector{}, &fakeExternal{}, NewMemoryCache(time.Minute), cfg, noopLogger{})

	resp, err := o.Search(context.Background(), Request{Query: "vpn"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Results))
	}
}

// deadlineKeyword fails like a real store would when handed an expired context.
type deadlineKeyword struct{ results []Result }

func (f *deadlineKeyword) Search(ctx context.Context, req Request) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.results, nil
}

func TestSearchCacheIsolationAcrossCallers(t *testing.T) {
	keyword := &fakeKeyword{results: []Result{keywordResult("hit", 1.0)}}
	o := newTestOrchestrator(keyword, &fakeVector{}, &fakeExternal{})

	callerId := uuid.New()
	if _, err := o.Search(context.Background(), Request{Query: "vpn", Visibility: Visibility{PublicOnly: true}}); err != nil {
		t.Fatal(err)
	}
	resp, err := o.Search(context.Background(), Request{Query: "vpn", Visibility: Visibility{CallerId: &callerId}})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Stats.Cached {
		t.Error("a scoped caller must not hit the public partition's entry")
	}
	if keyword.calls != 2 {
		t.Errorf("keyword source ran %d times, want 2", keyword.calls)
	}
}
