package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jokenpo-server/internal/config"
	"jokenpo-server/internal/gateway"
	"jokenpo-server/internal/httpapi"
	"jokenpo-server/internal/hub"
	"jokenpo-server/internal/session"
)

func main() {
	// Optional .env for local development; env vars win in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	h := hub.NewHub(ctx, logger)
	sessions := session.NewDirectory()
	gw := gateway.New(h, sessions, logger, cfg.AllowedOrigins)

	handler := httpapi.SetupRoutes(gw)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
