package telemetry

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCompile(t *testing.T) {
	m := New(false)

	m.ObserveCompile("patients", "")
	m.ObserveCompile("patients", "")
	m.ObserveCompile("patients", "InvalidUUID")

	if got := testutil.ToFloat64(m.compiles.WithLabelValues("patients", ResultOK)); got != 2 {
		t.Errorf("ok compiles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.compiles.WithLabelValues("patients", ResultError)); got != 1 {
		t.Errorf("failed compiles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.compileErrors.WithLabelValues("patients", "InvalidUUID")); got != 1 {
		t.Errorf("InvalidUUID errors = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveCompile("patients", "")
	m.SetPoolConns(4, 1)
}

func TestSetPoolConns(t *testing.T) {
	m := New(false)
	m.SetPoolConns(10, 3)

	if got := testutil.ToFloat64(m.poolConns.WithLabelValues("acquired")); got != 7 {
		t.Errorf("acquired = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.poolConns.WithLabelValues("idle")); got != 3 {
		t.Errorf("idle = %v, want 3", got)
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := New(false)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/:entity", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "nope")
	})

	for _, path := range []string{"/api/v1/patients", "/api/v1/visits", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/:entity", "200")); got != 2 {
		t.Errorf("route requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/fail", "400")); got != 1 {
		t.Errorf("error requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeRequests); got != 0 {
		t.Errorf("active requests = %v, want 0", got)
	}
}

func TestMiddleware_UnmatchedPathsShareOneSeries(t *testing.T) {
	m := New(false)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/:entity", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random/%d", i), nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	}

	if n := testutil.CollectAndCount(m.requests); n != 1 {
		t.Errorf("request series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", UnmatchedRoute, "404")); got != 5 {
		t.Errorf("unmatched requests = %v, want 5", got)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		route, path string
		status      int
		want        string
	}{
		{"/api/v1/:entity", "/api/v1/patients", 200, "/api/v1/:entity"},
		{"/api/v1/:entity", "/api/v1/ghosts", 404, "/api/v1/:entity"},
		{"", "/random", 404, UnmatchedRoute},
		{"/random", "/random", 404, UnmatchedRoute},
		{"/health", "/health", 405, UnmatchedRoute},
		{"/health", "/health", 200, "/health"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := routeLabel(tt.route, tt.path, tt.status); got != tt.want {
				t.Errorf("routeLabel(%q, %q, %d) = %q, want %q", tt.route, tt.path, tt.status, got, tt.want)
			}
		})
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := New(true)
	m.ObserveCompile("visits", "TooManyValues")

	e := echo.New()
	e.GET("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`practice_query_compile_total{entity="visits",result="error"} 1`,
		`practice_query_compile_errors_total{entity="visits",kind="TooManyValues"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
