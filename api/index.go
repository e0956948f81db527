// Package handler exposes the GSRS API as a single serverless function.
// The platform calls Handler for every request; the service is assembled on
// the first call and reused while the instance stays warm.
package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/app"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/config"
	"github.com/pmppiyas/GSRS-Blood-Server/pkg/logger"
)

var (
	once    sync.Once
	service http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		initErr = err
		bootLog := logger.Init(logger.Options{Service: "gsrs"})
		bootLog.Error().Err(err).Msg("invalid configuration")
		return
	}
	cfg.Mode = config.ModeServerless

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Service: "gsrs"})
	service = app.New(context.Background(), cfg, log, app.Options{})
}

// Handler serves one request.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"server misconfigured"}`))
		return
	}
	service.ServeHTTP(w, r)
}
