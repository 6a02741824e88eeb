package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGemini struct {
	models     string
	listStatus int
	genStatus  int
	genBody    string
	gotModel   string
	gotPrompt  string
	gotKey     string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.gotKey = r.URL.Query().Get("key")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/models":
		if f.listStatus != 0 {
			w.WriteHeader(f.listStatus)
			return
		}
		_, _ = w.Write([]byte(f.models))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":generateContent"):
		f.gotModel = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ":generateContent")
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			f.gotPrompt = req.Contents[0].Parts[0].Text
		}
		if f.genStatus != 0 {
			w.WriteHeader(f.genStatus)
		}
		_, _ = w.Write([]byte(f.genBody))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeGemini, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient("secret", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func candidate(text string) string {
	out, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(out)
}

const modelList = `{"models": [
	{"name": "models/embedding-001", "supportedGenerationMethods": ["embedContent"]},
	{"name": "models/gemini-pro", "supportedGenerationMethods": ["generateContent"]},
	{"name": "models/gemini-1.5-pro", "supportedGenerationMethods": ["generateContent"]}
]}`

func TestListModels_FiltersGenerateContent(t *testing.T) {
	f := &fakeGemini{models: modelList}
	c := newTestClient(t, f)

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/gemini-pro", models[0].Name)
	assert.Equal(t, "secret", f.gotKey)
}

func TestPickModel(t *testing.T) {
	tests := []struct {
		name   string
		models []string
		want   string
	}{
		{"flash first", []string{"models/gemini-pro", "models/gemini-1.5-flash-001"}, "models/gemini-1.5-flash-001"},
		{"pro over legacy", []string{"models/gemini-pro", "models/gemini-1.5-pro"}, "models/gemini-1.5-pro"},
		{"first otherwise", []string{"models/other-a", "models/other-b"}, "models/other-a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var models []Model
			for _, n := range tt.models {
				models = append(models, Model{Name: n})
			}
			got, err := PickModel(models)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PickModel(nil)
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestBestModel_FallsBackWhenListingFails(t *testing.T) {
	c := newTestClient(t, &fakeGemini{listStatus: http.StatusForbidden})
	assert.Equal(t, FallbackModel, c.BestModel(context.Background()))
}

func TestGenerate_AutoResolvesModel(t *testing.T) {
	f := &fakeGemini{models: modelList, genBody: candidate("hi")}
	c := newTestClient(t, f)

	out, err := c.Generate(context.Background(), AutoModel, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, "models/gemini-1.5-pro", f.gotModel)
	assert.Equal(t, "hello", f.gotPrompt)
}

func TestGenerate_AddsModelsPrefix(t *testing.T) {
	f := &fakeGemini{genBody: candidate("ok")}
	c := newTestClient(t, f)

	_, err := c.Generate(context.Background(), "gemini-1.5-flash", "x")
	require.NoError(t, err)
	assert.Equal(t, "models/gemini-1.5-flash", f.gotModel)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewClient("").Generate(context.Background(), "m", "x")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("rate limited", func(t *testing.T) {
		c := newTestClient(t, &fakeGemini{genStatus: http.StatusTooManyRequests, genBody: `{}`})
		_, err := c.Generate(context.Background(), "m", "x")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("api error message", func(t *testing.T) {
		c := newTestClient(t, &fakeGemini{genStatus: http.StatusBadRequest, genBody: `{"error":{"message":"API key not valid"}}`})
		_, err := c.Generate(context.Background(), "m", "x")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "API key not valid")
	})

	t.Run("empty candidate", func(t *testing.T) {
		c := newTestClient(t, &fakeGemini{genBody: `{"candidates":[]}`})
		_, err := c.Generate(context.Background(), "m", "x")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestRepair_StripsFences(t *testing.T) {
	f := &fakeGemini{genBody: candidate("```json\n{\"a\": 1}\n```")}
	c := newTestClient(t, f, WithModel("gemini-pro"))

	out, err := c.Repair(context.Background(), `{a: 1`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
	assert.Contains(t, f.gotPrompt, "Invalid JSON:\n{a: 1")
}

func TestSchemaExplainQueryConvert_Prompts(t *testing.T) {
	f := &fakeGemini{genBody: candidate("```typescript\ninterface Root {}\n```")}
	c := newTestClient(t, f, WithModel("gemini-pro"))
	ctx := context.Background()

	out, err := c.Schema(ctx, `{}`)
	require.NoError(t, err)
	assert.Equal(t, "interface Root {}", out)
	assert.Contains(t, f.gotPrompt, "'Root'")
	assert.True(t, strings.HasSuffix(f.gotPrompt, "JSON:\n{}"))

	_, err = c.Explain(ctx, `{}`)
	require.NoError(t, err)
	assert.Contains(t, f.gotPrompt, "Explain this JSON")

	_, err = c.Query(ctx, `{}`, "how many users?")
	require.NoError(t, err)
	assert.Contains(t, f.gotPrompt, "Question: how many users?")

	_, err = c.Query(ctx, `{}`, "  ")
	assert.Error(t, err)

	_, err = c.Convert(ctx, `{}`, "XML")
	require.NoError(t, err)
	assert.Contains(t, f.gotPrompt, "Convert this JSON to XML.")
}

func TestGenerateData(t *testing.T) {
	f := &fakeGemini{genBody: candidate("```json\n[{\"name\": \"Ada\"}]\n```")}
	c := newTestClient(t, f, WithModel("gemini-pro"))
	ctx := context.Background()

	out, err := c.GenerateData(ctx, "  one user  ")
	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Ada"}]`, out)
	assert.Contains(t, f.gotPrompt, "Description: one user")
	assert.NotContains(t, f.gotPrompt, "JSON:\n")

	_, err = c.GenerateData(ctx, "")
	assert.Error(t, err)
	assert.Equal(t, "Generate Data", ActionGenerate.String())
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "x", StripFences("```\nx\n```"))
	assert.Equal(t, "plain", StripFences("  plain "))
}
