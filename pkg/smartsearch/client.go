package smartsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrUnavailable marks transient oracle failures; the orchestrator degrades on it.
var ErrUnavailable = errors.New("smart search unavailable")

// Hit is one scored result from the external retrieval oracle.
// Score is optional; the orchestrator substitutes a default when absent.
type Hit struct {
	Id       string                 `json:"id"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Score    *float64               `json:"score,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type Client interface {
	Query(ctx context.Context, text string) ([]Hit, error)
}

// HTTPClient calls an external smart-search endpoint over JSON.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Results []Hit `json:"results"`
}

func (c *HTTPClient) Query(ctx context.Context, text string) ([]Hit, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 300 * time.Millisecond

	return backoff.Retry(ctx, func() ([]Hit, error) {
		hits, err := c.queryOnce(ctx, text)
		if err != nil && !errors.Is(err, ErrUnavailable) {
			return nil, backoff.Permanent(err)
		}
		return hits, err
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(3))
}

func (c *HTTPClient) queryOnce(ctx context.Context, text string) ([]Hit, error) {
	body, err := json.Marshal(queryRequest{Query: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/query", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
		}
		return nil, fmt.Errorf("smart search error, code %d, body %s", res.StatusCode, string(resBytes))
	}

	var parsed queryResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}
