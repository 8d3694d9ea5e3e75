package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/interlinear/internal/config"
)

// chatServer answers /v1/chat/completions with the given message content.
func chatServer(t *testing.T, status int, content string) (*httptest.Server, *[]string) {
	t.Helper()
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		if len(req.Messages) == 2 {
			prompts = append(prompts, req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &prompts
}

func newTestClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	client, err := NewOpenAIClient(config.Generation{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClient_NotConfigured(t *testing.T) {
	_, err := NewOpenAIClient(config.Generation{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAIClient_FetchChapter(t *testing.T) {
	content := `{"book":"John","chapter":1,"verses":[
		{"verse":1,"greek":"Ἐν ἀρχῇ ἦν ὁ λόγος","english":"In the beginning was the Word"},
		{"verse":2,"greek":"οὗτος ἦν ἐν ἀρχῇ πρὸς τὸν θεόν","english":"The same was in the beginning with God."}]}`
	srv, prompts := chatServer(t, http.StatusOK, content)
	client := newTestClient(t, srv)

	data, err := client.FetchChapter(context.Background(), "John", 1)
	require.NoError(t, err)

	assert.Equal(t, "John", data.Book)
	assert.Equal(t, 1, data.Chapter)
	require.Len(t, data.Verses, 2)
	assert.Equal(t, "Ἐν ἀρχῇ ἦν ὁ λόγος", data.Verses[0].Source)
	assert.Equal(t, "In the beginning was the Word", data.Verses[0].Target)
	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], "John Chapter 1")
}

func TestOpenAIClient_FetchChapter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not json", status: http.StatusOK, content: "In the beginning"},
		{name: "no verses", status: http.StatusOK, content: `{"book":"John","chapter":1,"verses":[]}`},
		{name: "missing chapter", status: http.StatusOK, content: `{"book":"John","verses":[{"verse":1,"greek":"a","english":"b"}]}`},
		{name: "wrong chapter", status: http.StatusOK, content: `{"book":"John","chapter":2,"verses":[{"verse":1,"greek":"a","english":"b"}]}`},
		{name: "duplicate verse", status: http.StatusOK, content: `{"chapter":1,"verses":[{"verse":1,"greek":"a","english":"b"},{"verse":1,"greek":"c","english":"d"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := chatServer(t, tt.status, tt.content)
			client := newTestClient(t, srv)

			_, err := client.FetchChapter(context.Background(), "John", 1)
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestOpenAIClient_AnalyzeWord(t *testing.T) {
	content := `{"original":"λόγος","romanization":"logos","gloss":"word","lemma":"λόγος","partOfSpeech":"noun","parsing":"Nominative Singular Masculine"}`
	srv, prompts := chatServer(t, http.StatusOK, content)
	client := newTestClient(t, srv)

	analysis, err := client.AnalyzeWord(context.Background(), "λόγος", "Ἐν ἀρχῇ ἦν ὁ λόγος")
	require.NoError(t, err)

	assert.Equal(t, "λόγος", analysis.Lemma)
	assert.Equal(t, "word", analysis.Gloss)
	assert.Equal(t, "noun", analysis.PartOfSpeech)
	assert.Equal(t, "logos", analysis.Romanization)
	require.Len(t, *prompts, 1)
	assert.True(t, strings.Contains((*prompts)[0], `"λόγος"`))
}

func TestOpenAIClient_AnalyzeWord_Malformed(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, `{"original":"λόγος"}`)
	client := newTestClient(t, srv)

	_, err := client.AnalyzeWord(context.Background(), "λόγος", "Ἐν ἀρχῇ ἦν ὁ λόγος")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{}.FetchChapter(context.Background(), "John", 1)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Unconfigured{}.AnalyzeWord(context.Background(), "λόγος", "")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestBooks(t *testing.T) {
	books := Books()
	require.Len(t, books, 27)
	assert.Equal(t, "Matthew", books[0].Name)
	assert.Equal(t, "Revelation", books[26].Name)

	books[0].Name = "changed"
	assert.Equal(t, "Matthew", Books()[0].Name)

	assert.True(t, IsKnownBook("John"))
	assert.False(t, IsKnownBook("Genesis"))
	assert.True(t, ValidChapter("John", 21))
	assert.False(t, ValidChapter("John", 22))
	assert.False(t, ValidChapter("Jude", 0))
}
