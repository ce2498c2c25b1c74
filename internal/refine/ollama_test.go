package refine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOllamaLoadChecksModelPresence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "tinyllama:latest"}},
		})
	}))
	defer srv.Close()

	known := NewOllamaClient(ClientConfig{Endpoint: srv.URL, Model: "tinyllama"})
	require.NoError(t, known.Load(context.Background()))

	unknown := NewOllamaClient(ClientConfig{Endpoint: srv.URL, Model: "mistral"})
	require.Error(t, unknown.Load(context.Background()))
}

func TestOllamaLoadFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOllamaClient(ClientConfig{Endpoint: srv.URL, Model: "tinyllama"})
	require.Error(t, c.Load(context.Background()))
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "tinyllama", req.Model)
		require.False(t, req.Stream)
		require.Equal(t, 500, req.Options.NumPredict)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: `{"title": "Ок"}`})
	}))
	defer srv.Close()

	c := NewOllamaClient(ClientConfig{Endpoint: srv.URL, Model: "tinyllama", MaxTokens: 500})
	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, `{"title": "Ок"}`, out)
}
