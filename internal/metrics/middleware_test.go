package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newRouter mirrors the API routes, with the search handlers answering the
// status the test asks for in ?status.
func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())

	status := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("status") {
		case "400":
			w.WriteHeader(http.StatusBadRequest)
		case "503":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"items":[]}`))
		}
	}
	r.Get("/health", status)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", status)
		r.Get("/search/explain", status)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return r
}

func requests(method, path, status string) float64 {
	return testutil.ToFloat64(httpRequestsTotal.WithLabelValues(method, path, status))
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := newRouter()
	before := requests("GET", "/api/v1/search", "200")

	// distinct query strings share one series
	for _, target := range []string{
		"/api/v1/search?q=%E9%A2%84%E7%AE%97",
		"/api/v1/search?q=title:x&limit=5",
	} {
		if rr := serve(h, target); rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rr.Code)
		}
	}

	if got := requests("GET", "/api/v1/search", "200") - before; got != 2 {
		t.Errorf("expected 2 requests on /api/v1/search, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	h := newRouter()
	tests := []struct {
		target, path, status string
	}{
		{"/api/v1/search/explain", "/api/v1/search/explain", "200"},
		{"/api/v1/search?status=400", "/api/v1/search", "400"},
		{"/api/v1/search?status=503", "/api/v1/search", "503"},
		{"/health?status=503", "/health", "503"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			before := requests("GET", tc.path, tc.status)
			serve(h, tc.target)
			if got := requests("GET", tc.path, tc.status) - before; got != 1 {
				t.Errorf("expected one request for %s %s, got %f", tc.path, tc.status, got)
			}
		})
	}
}

func TestMiddleware_UnmatchedRouteIsUnknown(t *testing.T) {
	h := newRouter()
	before := requests("GET", "unknown", "404")

	serve(h, "/transcripts/42")
	serve(h, "/api/v2/search")

	if got := requests("GET", "unknown", "404") - before; got != 2 {
		t.Errorf("expected unmatched paths under one label, got %f", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"", "unknown"},
		{"/api/v1/search", "/api/v1/search"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
