package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mindcare/backend/internal/model/resource"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(resource.NewMemoryStore(resource.Seed())).RegisterRoutes(r)
	return r
}

func TestListResources(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/resources/crisis", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var items []resource.Resource
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != len(resource.Seed()) {
		t.Fatalf("expected %d resources, got %d", len(resource.Seed()), len(items))
	}
}

func TestGetResource(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/resources/crisis/988-lifeline", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/resources/crisis/unknown", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
