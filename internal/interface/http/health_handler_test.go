package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

func TestHealthHidesBackendErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(map[string]Check{
		"postgres": func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused") },
		"redis":    func(context.Context) error { return nil },
	}, helpers.NewNopLogger())

	r := gin.New()
	r.GET("/health", h.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Fatalf("response leaks backend address: %s", w.Body.String())
	}
	var body struct {
		Error map[string]string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error["postgres"] != "unavailable" || body.Error["redis"] != "ok" {
		t.Fatalf("unexpected dependency report: %v", body.Error)
	}
}
