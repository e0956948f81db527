// Command server runs the GSRS blood server as a long-running process.
//
//	@title			GSRS Blood Server API
//	@version		1.0
//	@description	Blood donor registration and lookup.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/app"
	"github.com/pmppiyas/GSRS-Blood-Server/internal/infrastructure/config"
	"github.com/pmppiyas/GSRS-Blood-Server/pkg/logger"
)

func main() {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		l := logger.Init(logger.Options{Service: "gsrs"})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "gsrs",
	})
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		log.Warn().Err(dotenvErr).Msg(".env not loaded")
	}

	a := app.New(context.Background(), cfg, log, app.Options{})

	go func() {
		if err := a.Start(); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("shutdown complete")
}
