package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *TaskIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("elasticsearch.NewClient: %v", err)
	}
	return NewTaskIndex(es, "tasks")
}

func TestSearchFiltersByOwnerAndParsesIDs(t *testing.T) {
	var body map[string]any
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/tasks/_search") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"12"},{"_id":"3"},{"_id":"bogus"}]}}`)
	})

	ids, err := idx.Search(context.Background(), 7, "report", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 2 || ids[0] != 12 || ids[1] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	filter := body["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
	term := filter[0].(map[string]any)["term"].(map[string]any)
	if term["user_id"].(float64) != 7 {
		t.Fatalf("expected owner filter, got %v", term)
	}
}

func TestIndexSendsDocument(t *testing.T) {
	var got map[string]any
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/tasks/") {
			t.Errorf("expected document under the tasks index, got %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	desc := "details"
	err := idx.Index(context.Background(), &entity.Task{ID: 5, UserID: 7, Title: "write", Description: &desc, Priority: entity.PriorityHigh, Status: entity.StatusPending})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if got["title"] != "write" || got["description"] != "details" || got["user_id"].(float64) != 7 {
		t.Fatalf("unexpected document: %v", got)
	}
}

func TestRemoveIgnoresMissingDocument(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	if err := idx.Remove(context.Background(), 99); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}
