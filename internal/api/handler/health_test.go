package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealth_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		deps       map[string]PingFunc
		wantCode   int
		wantStatus string
	}{
		{"all healthy", map[string]PingFunc{"mongodb": ok, "redis": ok}, http.StatusOK, "ok"},
		{"mongo down", map[string]PingFunc{"mongodb": down, "redis": ok}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

		if err := NewHealthHandler(tc.deps).Readiness(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.wantCode {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.wantCode, rec.Code)
		}

		var resp readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if resp.Status != tc.wantStatus || len(resp.Dependencies) != len(tc.deps) {
			t.Errorf("%s: unexpected payload %+v", tc.name, resp)
		}
	}
}
