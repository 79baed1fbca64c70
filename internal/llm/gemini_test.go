package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiCompleteSuccess(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	srv := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": "The evidence "}, {"text": "supports liability."}},
					},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]any{"totalTokenCount": 42},
		})
	})

	provider := NewGeminiProvider("test-key", srv.URL, "")

	resp, err := provider.Complete(context.Background(), &CompletionRequest{
		Prompt:      "Analyze the case.",
		System:      "You are a legal analyst.",
		Temperature: 0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/"+GeminiModel+":generateContent", gotPath)
	assert.Equal(t, "The evidence supports liability.", resp.Content)
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Positive(t, resp.Latency)

	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "Analyze the case.", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "You are a legal analyst.", gotBody.SystemInstruction.Parts[0].Text)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.InDelta(t, 0.4, gotBody.GenerationConfig.Temperature, 1e-9)
}

func TestGeminiCompleteHTTPError(t *testing.T) {
	srv := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})

	provider := NewGeminiProvider("test-key", srv.URL, "")

	_, err := provider.Complete(context.Background(), &CompletionRequest{Prompt: "p"})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
	assert.Equal(t, "gemini", genErr.Provider)
}

func TestGeminiCompleteAPIErrorBody(t *testing.T) {
	srv := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "invalid argument"},
		})
	})

	provider := NewGeminiProvider("test-key", srv.URL, "")

	_, err := provider.Complete(context.Background(), &CompletionRequest{Prompt: "p"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 400, genErr.StatusCode)
	assert.Contains(t, genErr.Error(), "invalid argument")
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	srv := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	provider := NewGeminiProvider("test-key", srv.URL, "")

	_, err := provider.Complete(context.Background(), &CompletionRequest{Prompt: "p"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Error(), "empty completion")
}

func TestGeminiCompleteModelOverride(t *testing.T) {
	var gotPath string
	srv := geminiStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	})

	provider := NewGeminiProvider("test-key", srv.URL, "gemini-2.5-flash")

	resp, err := provider.Complete(context.Background(), &CompletionRequest{
		Prompt: "p",
		Model:  "gemini-2.5-pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "/models/gemini-2.5-pro:generateContent", gotPath)
	assert.Equal(t, "gemini-2.5-pro", resp.Model)
}

func TestGeminiHealthCheck(t *testing.T) {
	assert.Error(t, NewGeminiProvider("", "", "").HealthCheck())
	assert.NoError(t, NewGeminiProvider("key", "", "").HealthCheck())
}
