package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

type item struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

func newServer(t *testing.T, handler func(req embeddingRequest) (int, any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req embeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, url string, dims int) *EmbeddingService {
	t.Helper()
	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: url, Dimensions: dims})
	require.NoError(t, err)
	return s
}

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, 1536, s.Dimensions())

	s, err = NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, s.Dimensions())
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	srv := newServer(t, func(req embeddingRequest) (int, any) {
		assert.Equal(t, []string{"a", "b", "c"}, req.Input)
		assert.Equal(t, 2, req.Dimensions)
		return http.StatusOK, map[string]any{"data": []item{
			{Embedding: []float64{3, 3}, Index: 2},
			{Embedding: []float64{1, 1}, Index: 0},
			{Embedding: []float64{2, 2}, Index: 1},
		}}
	})

	got, err := newService(t, srv.URL, 2).EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}, {3, 3}}, got)
}

func TestEmbedBatch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		item   int
	}{
		{"missing item", http.StatusOK, map[string]any{"data": []item{{Embedding: []float64{1, 1}, Index: 0}}}, 1},
		{"wrong size", http.StatusOK, map[string]any{"data": []item{
			{Embedding: []float64{1, 1}, Index: 0},
			{Embedding: []float64{1, 1, 1}, Index: 1},
		}}, 1},
		{"bad index", http.StatusOK, map[string]any{"data": []item{{Embedding: []float64{1, 1}, Index: 5}}}, -1},
		{"api error", http.StatusUnauthorized, map[string]any{"error": map[string]string{"message": "bad key"}}, -1},
		{"server error", http.StatusInternalServerError, "oops", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(embeddingRequest) (int, any) { return tt.status, tt.body })

			_, err := newService(t, srv.URL, 2).EmbedBatch(context.Background(), []string{"a", "b"})
			require.ErrorIs(t, err, domain.ErrCapabilityUnavailable)

			var capErr *domain.CapabilityError
			require.ErrorAs(t, err, &capErr)
			assert.Equal(t, tt.item, capErr.Item)
		})
	}
}

func TestEmbed_Single(t *testing.T) {
	srv := newServer(t, func(req embeddingRequest) (int, any) {
		return http.StatusOK, map[string]any{"data": []item{{Embedding: []float64{0.5, -0.5}, Index: 0}}}
	})

	got, err := newService(t, srv.URL, 2).Embed(context.Background(), "sick leave")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, got)
}

func TestEmbedBatch_Empty(t *testing.T) {
	got, err := newService(t, "http://unused.invalid", 2).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPing(t *testing.T) {
	srv := newServer(t, func(embeddingRequest) (int, any) { return http.StatusOK, nil })
	assert.NoError(t, newService(t, srv.URL, 2).Ping(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer down.Close()
	assert.ErrorIs(t, newService(t, down.URL, 2).Ping(context.Background()), domain.ErrCapabilityUnavailable)
}
