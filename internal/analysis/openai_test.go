package analysis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gemini-2.5-flash",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
	})
	return string(body)
}

func TestNewOpenAIGenerator_Validates(t *testing.T) {
	_, err := NewOpenAIGenerator("", "gemini-2.5-flash")
	require.Error(t, err)
	_, err = NewOpenAIGenerator("key", " ")
	require.Error(t, err)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var (
		gotPath  string
		gotAuth  string
		gotModel string
		gotMsg   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(raw, &req)
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotMsg = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionBody(`{"userResponse":"u","summary":"s","actions":[]}`))
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator("test-key", "gemini-2.5-flash", WithBaseURL(srv.URL+"/v1/"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "hello prompt")
	require.NoError(t, err)
	require.Equal(t, `{"userResponse":"u","summary":"s","actions":[]}`, text)
	require.Equal(t, "/v1/chat/completions", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "gemini-2.5-flash", gotModel)
	require.Equal(t, "hello prompt", gotMsg)
}

func TestOpenAIGenerator_ServerErrorIsSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator("test-key", "m", WithBaseURL(srv.URL+"/v1/"))
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "p")
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIGenerator_EmptyContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionBody("   "))
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator("test-key", "m", WithBaseURL(srv.URL+"/v1/"))
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no text")
}

func TestOpenAIGenerator_FeedsAnalyzerFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator("test-key", "m", WithBaseURL(srv.URL+"/v1/"))
	require.NoError(t, err)

	got := NewAnalyzer(gen, 0).Analyze(context.Background(), "hated it", 1)
	require.Equal(t, ErrorResponse(), got)
}
