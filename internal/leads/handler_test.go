package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

func seed(t *testing.T, repo Repository, names ...string) []*Lead {
	t.Helper()
	var out []*Lead
	for _, name := range names {
		lead, err := repo.Create(context.Background(), &CreateLeadRequest{
			Name:            name,
			Phone:           "+66 92-006-8100",
			Location:        "Sukhumvit Soi 21, Bangkok",
			MeasurementDate: "2025-12-01",
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, lead)
	}
	return out
}

func routed(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/quotes", h.ListLeads)
	r.Get("/admin/quotes/{leadID}", h.GetLead)
	return r
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	seed(t, repo, "Somchai", "Malee", "Anong")
	h := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/quotes?limit=2", nil)
	w := httptest.NewRecorder()
	routed(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || resp.Limit != 2 {
		t.Fatalf("expected 2 leads with limit 2, got count=%d limit=%d", resp.Count, resp.Limit)
	}
}

func TestListLeads_IgnoresBadPaging(t *testing.T) {
	repo := NewInMemoryRepository()
	seed(t, repo, "Somchai")
	h := NewHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/quotes?limit=500&offset=-1", nil)
	w := httptest.NewRecorder()
	routed(h).ServeHTTP(w, req)

	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Limit != 50 || resp.Offset != 0 || resp.Count != 1 {
		t.Fatalf("unexpected paging: %+v", resp)
	}
}

func TestGetLead(t *testing.T) {
	repo := NewInMemoryRepository()
	created := seed(t, repo, "Somchai Saengchai")[0]
	h := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/quotes/"+created.ID, nil)
	w := httptest.NewRecorder()
	routed(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var lead Lead
	if err := json.NewDecoder(w.Body).Decode(&lead); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if lead.Name != "Somchai Saengchai" || lead.Location != "Sukhumvit Soi 21, Bangkok" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
}

func TestGetLead_NotFound(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/quotes/nonexistent", nil)
	w := httptest.NewRecorder()
	routed(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

type failingRepository struct{}

func (failingRepository) Create(context.Context, *CreateLeadRequest) (*Lead, error) {
	return nil, errors.New("boom")
}

func (failingRepository) GetByID(context.Context, string) (*Lead, error) {
	return nil, errors.New("boom")
}

func (failingRepository) List(context.Context, ListFilter) ([]*Lead, error) {
	return nil, errors.New("boom")
}

func TestHandler_RepositoryErrors(t *testing.T) {
	h := NewHandler(failingRepository{}, logging.New("error"))

	for _, path := range []string{"/admin/quotes", "/admin/quotes/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		routed(h).ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected %d, got %d", path, http.StatusInternalServerError, w.Code)
		}
	}
}
