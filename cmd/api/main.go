package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"nanobanana/internal/editor"
	"nanobanana/internal/history"
	"nanobanana/internal/http/handlers"
	httpapi "nanobanana/internal/http/httpapi"
	"nanobanana/internal/infra"
	"nanobanana/internal/notify"
	"nanobanana/internal/providers/image"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	store, closeStore, err := history.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("failed to open history store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("failed to close history store")
		}
	}()

	imageEditor, err := image.NewFromConfig(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image editor")
	}

	ed := editor.New(ctx, editor.Options{
		Editor:   imageEditor,
		Store:    store,
		Notifier: notify.New(),
		Logger:   &logger,
	})

	app := handlers.NewApp(cfg, ed, logger)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Bool("demo_mode", cfg.DemoMode()).
			Str("history_backend", cfg.HistoryBackend).
			Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
