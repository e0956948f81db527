package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/api/handler"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/config"
)

// unreachableURI points at a closed local port with short driver timeouts.
const unreachableURI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"

func newTestApp(t *testing.T, mode string) *App {
	t.Helper()
	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DEPLOY_MODE":   mode,
		"MONGO_URI":     unreachableURI,
		"MONGO_TIMEOUT": "1s",
	}))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	reg := prometheus.NewRegistry()
	a := New(context.Background(), cfg, zerolog.Nop(), Options{Registerer: reg, Gatherer: reg})
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestApp_ServerlessDoesNotConnectUntilRequest(t *testing.T) {
	a := newTestApp(t, config.ModeServerless)

	if a.provider.Connected() {
		t.Fatal("serverless mode must not connect during assembly")
	}

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != handler.Banner {
		t.Fatalf("banner: got %d %q", rec.Code, rec.Body.String())
	}
	if a.provider.Connected() {
		t.Fatal("the banner must not open a connection")
	}
}

func TestApp_UnreachableDatabaseIs503(t *testing.T) {
	for _, mode := range []string{config.ModeServer, config.ModeServerless} {
		a := newTestApp(t, mode)

		for _, target := range []string{"/users", "/user/a@x.com"} {
			rec := httptest.NewRecorder()
			a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("%s %s: expected 503, got %d", mode, target, rec.Code)
			}
		}

		rec := httptest.NewRecorder()
		a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s readiness: expected 503, got %d", mode, rec.Code)
		}
	}
}
