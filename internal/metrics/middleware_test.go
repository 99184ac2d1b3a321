package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsSpecLabelFromRouteParam(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/settings/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/settings/listings", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/settings/{name}", "200", "listings"))
	if val < 1 {
		t.Errorf("expected http_requests_total for spec %q >= 1, got %f", "listings", val)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_RoutesWithoutASpecGetDashLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/settings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/settings", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/settings", "200", "-"))
	if val < 1 {
		t.Errorf("expected http_requests_total with spec \"-\" >= 1, got %f", val)
	}
}

func TestSpecLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/settings/{name}", func(w http.ResponseWriter, r *http.Request) {
		if got, want := specLabel(r), "widgets"; got != want {
			t.Errorf("specLabel = %q, want %q", got, want)
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if got, want := specLabel(r), "-"; got != want {
			t.Errorf("specLabel = %q, want %q", got, want)
		}
	})

	for _, path := range []string{"/settings/widgets", "/healthz"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/settings/{name}", "/settings/{name}"},
		{"/healthz", "/healthz"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
