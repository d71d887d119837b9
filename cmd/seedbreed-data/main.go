package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seedbreed/common/logger"
	"seedbreed/internal/app"
	"seedbreed/internal/config"
	httpapi "seedbreed/internal/http"
	"seedbreed/internal/ocr"
	"seedbreed/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "seedbreed-data")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize record store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer a.Close()

	chat := service.NewChatClient(service.ChatConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}, log)
	if cfg.AI.APIKey == "" {
		log.Warn("AI_API_KEY is empty, AI chat and identify requests will be rejected upstream")
	}
	identify := service.NewIdentifyService(ocr.NewTesseractRecognizer(cfg.OCR.TesseractPath, cfg.OCR.Lang, log), chat, log)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterMetricsRoutes(a.Metrics)
	router.RegisterRecordRoutes(httpapi.NewRecordHandlers(a.Introductions, a.Purifications, a.Sowings, a.TestRecords, a.SavedSeeds, log))
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(a.Dashboard, log))
	router.RegisterAIRoutes(httpapi.NewAIHandler(chat, identify, log))

	if cfg.APIToken == "" {
		log.Warn("API_TOKEN is empty, /api/v1 routes are not authenticated")
	}
	handler := httpapi.WithRequestLog(log, httpapi.WithAuth(cfg.APIToken, router))
	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}
