package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/veracity"
	"github.com/fwojciec/veracity/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const validResult = `{
  "verdict": "Mostly Authentic",
  "confidence": 78,
  "summary": "Consistent with public records.",
  "claims": [
    {"text": "The council approved the budget.", "status": "verified", "explanation": "Minutes confirm the vote."}
  ],
  "reasoning": "Key claims match official sources.",
  "sources": []
}`

// newClient returns a genai client whose requests are served by handler.
func newClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	require.NoError(t, err)
	return client
}

func modelResponse(text string, sources ...string) []byte {
	var chunks []map[string]any
	for _, uri := range sources {
		chunks = append(chunks, map[string]any{"web": map[string]any{"uri": uri, "title": "Title of " + uri}})
	}
	candidate := map[string]any{
		"content": map[string]any{
			"role":  "model",
			"parts": []map[string]any{{"text": text}},
		},
		"finishReason": "STOP",
	}
	if len(chunks) > 0 {
		candidate["groundingMetadata"] = map[string]any{"groundingChunks": chunks}
	}
	body, _ := json.Marshal(map[string]any{"candidates": []any{candidate}})
	return body
}

func jsonHandler(status int, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns validated result", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, jsonHandler(http.StatusOK, modelResponse(validResult)))

		result, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.NoError(t, err)
		assert.Equal(t, "Mostly Authentic", result.Verdict)
		assert.InDelta(t, 78.0, result.Confidence, 0.001)
		require.Len(t, result.Claims, 1)
		assert.Equal(t, veracity.ClaimVerified, result.Claims[0].Status)
	})

	t.Run("adds grounding sources when the model cited none", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, jsonHandler(http.StatusOK,
			modelResponse(validResult, "https://a.example/1", "https://b.example/2", "https://a.example/1")))

		result, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.NoError(t, err)
		assert.Equal(t, []veracity.Source{
			{Title: "Title of https://a.example/1", URL: "https://a.example/1"},
			{Title: "Title of https://b.example/2", URL: "https://b.example/2"},
		}, result.Sources)
	})

	t.Run("sends search tool when grounding", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan string, 1)
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies <- string(b)
			jsonHandler(http.StatusOK, modelResponse(validResult))(w, r)
		})

		_, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt text", veracity.DefaultGenerateOptions())

		require.NoError(t, err)
		body := <-bodies
		assert.Contains(t, body, "googleSearch")
		assert.Contains(t, body, "prompt text")
	})

	t.Run("sends response schema without grounding", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan string, 1)
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies <- string(b)
			jsonHandler(http.StatusOK, modelResponse(validResult))(w, r)
		})

		opts := veracity.DefaultGenerateOptions()
		opts.Grounding = false
		_, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", opts)

		require.NoError(t, err)
		body := <-bodies
		assert.Contains(t, body, "responseSchema")
		assert.NotContains(t, body, "googleSearch")
	})

	t.Run("rejects out-of-range confidence", func(t *testing.T) {
		t.Parallel()

		bad := `{"verdict":"Mostly Authentic","confidence":150,"summary":"s","claims":[],"reasoning":"r","sources":[]}`
		client := newClient(t, jsonHandler(http.StatusOK, modelResponse(bad)))

		_, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.Error(t, err)
		assert.Equal(t, veracity.EMODEL, veracity.ErrorCode(err))
		assert.Equal(t, veracity.ReasonSchemaViolation, veracity.ErrorReason(err))
	})

	t.Run("maps 429 to rate limited", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, jsonHandler(http.StatusTooManyRequests,
			[]byte(`{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`)))

		_, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.Error(t, err)
		assert.Equal(t, veracity.EMODEL, veracity.ErrorCode(err))
		assert.Equal(t, veracity.ReasonRateLimited, veracity.ErrorReason(err))
	})

	t.Run("maps invalid key to auth failed", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, jsonHandler(http.StatusBadRequest,
			[]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)))

		_, err := gemini.NewGenerator(client, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.Error(t, err)
		assert.Equal(t, veracity.ReasonAuthFailed, veracity.ErrorReason(err))
	})

	t.Run("returns config error without client", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewGenerator(nil, "").Generate(context.Background(), "prompt", veracity.DefaultGenerateOptions())

		require.Error(t, err)
		assert.Equal(t, veracity.ECONFIG, veracity.ErrorCode(err))
		assert.Equal(t, veracity.ReasonMissingCredential, veracity.ErrorReason(err))
	})
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid JSON", func(t *testing.T) {
		t.Parallel()

		result, err := gemini.ParseResult(validResult)

		require.NoError(t, err)
		assert.Equal(t, "Consistent with public records.", result.Summary)
	})

	t.Run("accepts fenced JSON", func(t *testing.T) {
		t.Parallel()

		result, err := gemini.ParseResult("```json\n" + validResult + "\n```")

		require.NoError(t, err)
		assert.Equal(t, "Mostly Authentic", result.Verdict)
	})

	tests := []struct {
		name string
		text string
	}{
		{"not JSON", "The article looks fine."},
		{"empty", ""},
		{"missing field", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[],"reasoning":"r"}`},
		{"unknown field", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[],"reasoning":"r","sources":[],"extra":1}`},
		{"bad status", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[{"text":"t","status":"probably","explanation":"e"}],"reasoning":"r","sources":[]}`},
		{"negative confidence", `{"verdict":"Unverified","confidence":-1,"summary":"s","claims":[],"reasoning":"r","sources":[]}`},
		{"confidence as string", `{"verdict":"Unverified","confidence":"5","summary":"s","claims":[],"reasoning":"r","sources":[]}`},
		{"null confidence", `{"verdict":"Unverified","confidence":null,"summary":"s","claims":[],"reasoning":"r","sources":[]}`},
		{"null verdict", `{"verdict":null,"confidence":5,"summary":"s","claims":[],"reasoning":"r","sources":[]}`},
		{"null claims", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":null,"reasoning":"r","sources":[]}`},
		{"claim without explanation", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[{"text":"t","status":"verified"}],"reasoning":"r","sources":[]}`},
		{"claim with null text", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[{"text":null,"status":"verified","explanation":"e"}],"reasoning":"r","sources":[]}`},
		{"source without url", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[],"reasoning":"r","sources":[{"title":"Example"}]}`},
		{"source that is not an object", `{"verdict":"Unverified","confidence":5,"summary":"s","claims":[],"reasoning":"r","sources":["https://example.com"]}`},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := gemini.ParseResult(tt.text)

			require.Error(t, err)
			assert.Equal(t, veracity.EMODEL, veracity.ErrorCode(err))
			assert.Equal(t, veracity.ReasonSchemaViolation, veracity.ErrorReason(err))
		})
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   string
		reason veracity.Reason
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "unauthenticated"}, veracity.EMODEL, veracity.ReasonAuthFailed},
		{"forbidden", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, veracity.EMODEL, veracity.ReasonAuthFailed},
		{"too many requests", genai.APIError{Code: 429}, veracity.EMODEL, veracity.ReasonRateLimited},
		{"wrapped api error", fmt.Errorf("call: %w", genai.APIError{Code: 429}), veracity.EMODEL, veracity.ReasonRateLimited},
		{"quota text", errors.New("quota exceeded for project"), veracity.EMODEL, veracity.ReasonRateLimited},
		{"api key text", errors.New("API key not valid"), veracity.EMODEL, veracity.ReasonAuthFailed},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), veracity.ETIMEOUT, veracity.ReasonTimeout},
		{"server error", genai.APIError{Code: 500, Message: "internal"}, veracity.EINTERNAL, veracity.ReasonNone},
		{"unknown", errors.New("boom"), veracity.EINTERNAL, veracity.ReasonNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := gemini.ClassifyError(tt.err)

			assert.Equal(t, tt.code, veracity.ErrorCode(err))
			assert.Equal(t, tt.reason, veracity.ErrorReason(err))
			assert.NotEmpty(t, veracity.ErrorMessage(err))
		})
	}
}

func TestGroundingSources(t *testing.T) {
	t.Parallel()

	t.Run("returns nil without metadata", func(t *testing.T) {
		t.Parallel()

		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}

		assert.Nil(t, gemini.GroundingSources(resp))
		assert.Nil(t, gemini.GroundingSources(nil))
	})

	t.Run("falls back to URI for missing title", func(t *testing.T) {
		t.Parallel()

		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://a.example"}},
					{},
				},
			},
		}}}

		assert.Equal(t, []veracity.Source{{Title: "https://a.example", URL: "https://a.example"}}, gemini.GroundingSources(resp))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses fixed generation settings", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(veracity.DefaultGenerateOptions())

		require.NotNil(t, config.Temperature)
		assert.InDelta(t, 0.1, *config.Temperature, 0.0001)
		assert.Equal(t, int32(4000), config.MaxOutputTokens)
	})

	t.Run("attaches search tool and schema instruction when grounding", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(veracity.DefaultGenerateOptions())

		require.Len(t, config.Tools, 1)
		assert.NotNil(t, config.Tools[0].GoogleSearch)
		assert.Nil(t, config.ResponseSchema)
		require.NotNil(t, config.SystemInstruction)
		assert.Contains(t, config.SystemInstruction.Parts[0].Text, "confidence")
		assert.Contains(t, config.SystemInstruction.Parts[0].Text, "explanation")
	})

	t.Run("constrains response schema without grounding", func(t *testing.T) {
		t.Parallel()

		opts := veracity.DefaultGenerateOptions()
		opts.Grounding = false
		config := gemini.BuildConfig(opts)

		assert.Empty(t, config.Tools)
		assert.Equal(t, "application/json", config.ResponseMIMEType)
		require.NotNil(t, config.ResponseSchema)
		assert.ElementsMatch(t, []string{"verdict", "confidence", "summary", "claims", "reasoning", "sources"}, config.ResponseSchema.Required)
	})
}

func TestBuildSchema_ConstrainsClaimStatus(t *testing.T) {
	t.Parallel()

	schema := gemini.BuildSchema()

	status := schema.Properties["claims"].Items.Properties["status"]
	assert.Equal(t, []string{"verified", "contradicted", "unverified"}, status.Enum)
	require.NotNil(t, schema.Properties["confidence"].Minimum)
	assert.InDelta(t, 100.0, *schema.Properties["confidence"].Maximum, 0)
}
