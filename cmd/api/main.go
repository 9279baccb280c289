package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chat-relay/internal/app"
	"chat-relay/internal/config"
	apihttp "chat-relay/internal/http"
	"chat-relay/internal/llm"
	"chat-relay/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := app.NewLogger(cfg)
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := app.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	historyRepo, err := app.NewHistoryRepository(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Fatal("history store init failed", zap.String("driver", cfg.HistoryDriver), zap.Error(err))
	}

	publisher, err := app.NewPublisher(cfg, logger)
	if err != nil {
		logger.Fatal("events publisher init failed", zap.String("driver", cfg.EventsDriver), zap.Error(err))
	}

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	historySvc := service.NewHistoryService(historyRepo, publisher, logger)
	chatSvc := service.NewChatService(llmClient, historySvc, logger)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	historyHandler := apihttp.NewHistoryHandler(logger, historySvc)
	router := apihttp.NewRouter(logger, chatHandler, historyHandler, apihttp.RouterOptions{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		ChatLimiter:     app.NewChatLimiter(cfg, redisClient),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("model", cfg.LLMModel),
			zap.String("history_driver", cfg.HistoryDriver),
			zap.String("events_driver", cfg.EventsDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("close publisher", zap.Error(err))
	}
	if err := historyRepo.Close(); err != nil {
		logger.Warn("close history store", zap.Error(err))
	}
	logger.Info("server stopped")
}
