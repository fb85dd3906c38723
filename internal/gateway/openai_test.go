package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/store"
)

// completionServer returns an httptest server that replies with the given
// message content in chat-completion shape.
func completionServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		resp := map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{
					"message":       map[string]string{"content": content},
					"finish_reason": "stop",
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testGenerator(endpoint string) *OpenAI {
	settings, _ := parseSettings(defaultSettings)
	return NewOpenAI(config.ModelSettings{APIKey: "test-key", Model: "test-model", Endpoint: endpoint}, settings)
}

func TestGenerateLearning(t *testing.T) {
	content := `{"steps": [
		{"stepNumber": 1, "concept": "A", "explanation": "a", "analogy": "x"},
		{"stepNumber": 2, "concept": "B", "explanation": "b", "analogy": ""},
		{"stepNumber": 3, "concept": "C", "explanation": "c", "analogy": ""},
		{"stepNumber": 4, "concept": "D", "explanation": "d", "analogy": ""}
	]}`
	var captured map[string]any
	srv := completionServer(t, content, &captured)
	defer srv.Close()

	g := testGenerator(srv.URL)
	steps, err := g.GenerateLearning(context.Background(), "some thread")
	if err != nil {
		t.Fatalf("GenerateLearning failed: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(steps))
	}
	if steps[0].Concept != "A" {
		t.Errorf("step 1 concept = %q", steps[0].Concept)
	}

	// The request carries the JSON response format and user content
	if rf, ok := captured["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v", captured["response_format"])
	}
	messages := captured["messages"].([]any)
	user := messages[1].(map[string]any)
	if got := user["content"].(string); !strings.Contains(got, "some thread") {
		t.Errorf("user message = %q", got)
	}
	if _, present := captured["temperature"]; present {
		t.Error("temperature should be omitted when settings leave it zero")
	}
}

func TestGenerateLearningWrongStepCount(t *testing.T) {
	srv := completionServer(t, `{"steps": [{"stepNumber": 1, "concept": "A", "explanation": "a"}]}`, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	_, err := g.GenerateLearning(context.Background(), "text")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateNews(t *testing.T) {
	content := `{"summary": "Big release", "keyPoints": ["fast", "cheap"], "similarLinks": [{"title": "Docs", "url": "https://example.com"}]}`
	srv := completionServer(t, content, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	data, err := g.GenerateNews(context.Background(), "release notes")
	if err != nil {
		t.Fatalf("GenerateNews failed: %v", err)
	}
	if data.Summary != "Big release" {
		t.Errorf("summary = %q", data.Summary)
	}
	if len(data.KeyPoints) != 2 || len(data.SimilarLinks) != 1 {
		t.Errorf("unexpected payload: %+v", data)
	}
}

func TestGenerateNewsMissingSummary(t *testing.T) {
	srv := completionServer(t, `{"keyPoints": ["a"]}`, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	if _, err := g.GenerateNews(context.Background(), "text"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateInspiration(t *testing.T) {
	content := `{"tags": ["build"], "contextAnalysis": "momentum", "suggestedTweet": "ship it"}`
	srv := completionServer(t, content, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	data, err := g.GenerateInspiration(context.Background(), "text")
	if err != nil {
		t.Fatalf("GenerateInspiration failed: %v", err)
	}
	if data.SuggestedTweet != "ship it" {
		t.Errorf("suggested tweet = %q", data.SuggestedTweet)
	}
}

func TestGenerateFencedResponse(t *testing.T) {
	content := "```json\n{\"summary\": \"fenced\", \"keyPoints\": [], \"similarLinks\": []}\n```"
	srv := completionServer(t, content, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	data, err := g.GenerateNews(context.Background(), "text")
	if err != nil {
		t.Fatalf("GenerateNews failed: %v", err)
	}
	if data.Summary != "fenced" {
		t.Errorf("summary = %q", data.Summary)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := testGenerator(srv.URL)
	_, err := g.GenerateNews(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "API error (status 429)") {
		t.Errorf("err = %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "test-model", "choices": []}`))
	}))
	defer srv.Close()

	g := testGenerator(srv.URL)
	if _, err := g.GenerateNews(context.Background(), "text"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewOpenAI(config.ModelSettings{}, nil)
	if g.Available() {
		t.Error("generator without key reports available")
	}
	if _, err := g.GenerateNews(context.Background(), "text"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestGenerateDispatch(t *testing.T) {
	content := `{"summary": "dispatched", "keyPoints": [], "similarLinks": []}`
	srv := completionServer(t, content, nil)
	defer srv.Close()

	g := testGenerator(srv.URL)
	analysis, err := Generate(context.Background(), g, store.CategoryNews, "text")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := analysis.Validate(); err != nil {
		t.Fatalf("dispatched analysis invalid: %v", err)
	}
	if analysis.Category != store.CategoryNews || analysis.News.Summary != "dispatched" {
		t.Errorf("unexpected analysis: %+v", analysis)
	}

	if _, err := Generate(context.Background(), g, store.Category("bogus"), "text"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
