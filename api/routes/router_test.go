package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "cms-backend-test",
			ExpirationMinutes: 60,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:    time.Minute,
			RegisterWindow: time.Minute,
		},
	}
}

func newTestRouter(t *testing.T, registry *prometheus.Registry) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(testRouterConfig(), logg, nil, registry, Services{})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var env struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "OK" {
		t.Fatalf("health status = %q", env.Data.Status)
	}
}

func TestRouterEditorialRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPut, "/api/v1/settings/site_title"},
		{http.MethodDelete, "/api/v1/categories/8b9f2f40-44a5-4c60-a6ce-5f0e63f2a001"},
	}
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterMetricsExposedOnlyWithRegistry(t *testing.T) {
	withRegistry := newTestRouter(t, prometheus.NewRegistry())
	rec := httptest.NewRecorder()
	withRegistry.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("with registry: status = %d", rec.Code)
	}

	withoutRegistry := newTestRouter(t, nil)
	rec = httptest.NewRecorder()
	withoutRegistry.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("without registry: status = %d", rec.Code)
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/widgets", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
