package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

// Validation failures are rejected before the service layer is touched, so a
// nil service is enough for these tests.
func testRouter() *mux.Router {
	h := NewHandler(nil)
	r := mux.NewRouter()
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/companies/{id}/obligations", h.AddObligation).Methods("POST")
	r.HandleFunc("/companies/{id}/inflows", h.AddInflow).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	return r
}

func TestRegister_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"a"}`))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAddObligation_RejectsBadDate(t *testing.T) {
	body := `{"amount": 1000, "date": "15/01/2024"}`
	req := httptest.NewRequest(http.MethodPost, "/companies/1/obligations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparseable date, got %d", rec.Code)
	}
}

func TestAddObligation_RejectsNegativeAmount(t *testing.T) {
	body := `{"amount": -1000, "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/companies/1/obligations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative amount, got %d", rec.Code)
	}
}

func TestAddObligation_RejectsBadCompanyID(t *testing.T) {
	body := `{"amount": 1000, "date": "2024-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/companies/abc/obligations", strings.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric company id, got %d", rec.Code)
	}
}

func TestAddInflow_RejectsBadConfidence(t *testing.T) {
	body := `{"amount": 1000, "date": "2024-01-15", "confidence": "certain"}`
	req := httptest.NewRequest(http.MethodPost, "/companies/1/inflows", strings.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown confidence, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
