package smartsearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryReturnsHits(t *testing.T) {
	score := 0.72
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/query", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "printer offline", req.Query)

		json.NewEncoder(w).Encode(queryResponse{Results: []Hit{
			{Id: "kb-42", Title: "Printer troubleshooting", Content: "Power cycle the printer.", Score: &score},
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret")
	hits, err := client.Query(context.Background(), "printer offline")

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kb-42", hits[0].Id)
	require.NotNil(t, hits[0].Score)
	assert.InDelta(t, 0.72, *hits[0].Score, 1e-9)
}

func TestQueryRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(queryResponse{Results: []Hit{{Id: "kb-1", Title: "VPN setup"}}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	hits, err := client.Query(context.Background(), "vpn")

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	_, err := client.Query(context.Background(), "vpn")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestQueryWithoutEndpoint(t *testing.T) {
	client := NewHTTPClient("", "")
	_, err := client.Query(context.Background(), "vpn")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
