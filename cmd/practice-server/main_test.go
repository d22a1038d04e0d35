package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ehr/practice/internal/config"
	"github.com/ehr/practice/internal/platform/catalog"
	"github.com/ehr/practice/internal/platform/listing"
	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/telemetry"
)

func builtinCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Builtin())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestCompileQuery(t *testing.T) {
	out, err := compileQuery(builtinCatalog(t), "invoices", "status_in=paid,void&total_gte=100&limit=500&sort_by=total")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Spec.Page.Limit != 200 {
		t.Errorf("limit should clamp to the invoices max of 200, got %d", out.Spec.Page.Limit)
	}
	want := `SELECT "id", "number", "patient_id", "status", "total", "balance", "issued_at", "due_at", "paid_at", "created_at" FROM "invoices" WHERE ("status" IN ($1,$2) AND "total" >= $3) ORDER BY "total" DESC, "id" ASC LIMIT 200 OFFSET 0`
	if out.Select.SQL != want {
		t.Errorf("select SQL:\n got %s\nwant %s", out.Select.SQL, want)
	}
	if len(out.Select.Args) != 3 || out.Select.Args[0] != "PAID" || out.Select.Args[2] != 100.0 {
		t.Errorf("unexpected args: %v", out.Select.Args)
	}
	if !strings.HasPrefix(out.Count.SQL, "SELECT COUNT(*) FROM") {
		t.Errorf("unexpected count SQL: %s", out.Count.SQL)
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, out); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("output is not valid JSON: %s", buf.String())
	}
}

func TestCompileQuery_Errors(t *testing.T) {
	cat := builtinCatalog(t)

	if _, err := compileQuery(cat, "ghosts", ""); !errors.Is(err, listing.ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
	if _, err := compileQuery(cat, "patients", "%zz"); err == nil {
		t.Error("expected a parse error for a malformed query string")
	}
	_, err := compileQuery(cat, "patients", "birth_date_gt=yesterday")
	if kind, ok := query.KindOf(err); !ok || kind != query.KindInvalidDate {
		t.Errorf("expected InvalidDate, got %v", err)
	}
}

func TestPrintEntities(t *testing.T) {
	var buf bytes.Buffer
	if err := printEntities(&buf, builtinCatalog(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"email_templates (email_templates)", "patients (patients)", "birth_date", "date"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "email_templates") > strings.Index(out, "visits") {
		t.Error("entities should print in name order")
	}
}

func TestCompilerOptions(t *testing.T) {
	if n := len(compilerOptions(&config.Config{}, zerolog.Nop())); n != 1 {
		t.Errorf("expected only the logger option, got %d", n)
	}
	if n := len(compilerOptions(&config.Config{QueryStrictOrdering: true}, zerolog.Nop())); n != 2 {
		t.Errorf("expected strict ordering option, got %d", n)
	}
}

func TestNewServer_Routes(t *testing.T) {
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	metrics := telemetry.New(false)
	svc := listing.NewService(builtinCatalog(t), nil, metrics)
	e := newServer(cfg, zerolog.Nop(), svc, metrics, nil, nil)

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/_entities", http.StatusOK},
		{"/api/v1/patients/_schema", http.StatusOK},
		{"/api/v1/patients?limit=abc&id=nope", http.StatusBadRequest},
		{"/api/v1/ghosts", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.code {
				t.Errorf("GET %s: expected %d, got %d: %s", tt.path, tt.code, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("expected a request ID header")
			}
		})
	}
}
