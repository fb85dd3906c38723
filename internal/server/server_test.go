package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/content"
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
)

// fakeGenerator answers every category with a minimal valid payload.
type fakeGenerator struct{}

func (fakeGenerator) GenerateLearning(ctx context.Context, text string) ([]store.LearningStep, error) {
	return []store.LearningStep{{StepNumber: 1}, {StepNumber: 2}, {StepNumber: 3}, {StepNumber: 4}}, nil
}

func (fakeGenerator) GenerateNews(ctx context.Context, text string) (*store.NewsData, error) {
	return &store.NewsData{Summary: "summary"}, nil
}

func (fakeGenerator) GenerateInspiration(ctx context.Context, text string) (*store.InspirationData, error) {
	return &store.InspirationData{SuggestedTweet: "tweet"}, nil
}

type nullFetcher struct{}

func (nullFetcher) TweetText(ctx context.Context, link string) (string, error) {
	return "", nil
}

func newTestServer(t *testing.T) (*Server, *store.Store, *pipeline.Orchestrator) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	orchestrator := pipeline.New(st, fakeGenerator{}, content.NewResolver(nullFetcher{}))
	return New(st, orchestrator, config.ServerConfig{}), st, orchestrator
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); !resp.Success {
		t.Error("health should report success")
	}
}

func TestSubmitEndpoint(t *testing.T) {
	srv, st, orchestrator := newTestServer(t)

	body := strings.NewReader(`{"text": "interesting thing", "category": "news"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/items", body))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("response missing item id")
	}

	orchestrator.Wait()
	item, err := st.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item.IsLoading || item.News == nil {
		t.Errorf("item not finalized: %+v", item)
	}
}

func TestSubmitEndpointValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text": "  ", "category": "news"}`},
		{"bad category", `{"text": "hello", "category": "poetry"}`},
		{"broken json", `{"text": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/items", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if resp := decodeEnvelope(t, rec); resp.Success || resp.Error == nil {
				t.Error("expected error envelope")
			}
		})
	}
}

func TestListEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)

	if _, err := st.CreateDraft("first", "", store.CategoryNews); err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if _, err := st.CreateDraft("other category", "", store.CategoryLearning); err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items?category=news", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	items := resp.Data.([]any)
	if len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items?category=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for bad category", rec.Code)
	}
}

func TestCountsEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)

	if _, err := st.CreateDraft("one", "", store.CategoryInspiration); err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/counts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	counts := resp.Data.(map[string]any)
	if len(counts) != 3 {
		t.Errorf("counts has %d categories, want 3 (zeros included)", len(counts))
	}
	if counts["inspiration"].(float64) != 1 {
		t.Errorf("inspiration count = %v", counts["inspiration"])
	}
}

func TestDeleteEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)

	id, err := st.CreateDraft("doomed", "", store.CategoryNews)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/items/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := st.Get(id); err == nil {
		t.Error("item still present after delete")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/items/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for missing item", rec.Code)
	}
}

func TestSweepEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)

	id, err := st.CreateDraft("stale", "", store.CategoryNews)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if err := st.Finalize(id, store.Patch{Error: "Gemini API quota exceeded"}); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/maintenance/sweep", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if cleaned := resp.Data.(map[string]any)["cleaned"].(float64); cleaned != 1 {
		t.Errorf("cleaned = %v, want 1", cleaned)
	}
}
