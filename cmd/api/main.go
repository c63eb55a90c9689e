package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/registration-api/internal/auth"
	"github.com/registration-api/internal/config"
	"github.com/registration-api/internal/infrastructure/smtp"
	snsinfra "github.com/registration-api/internal/infrastructure/sns"
	"github.com/registration-api/internal/storage"
	"github.com/registration-api/internal/storage/dynamo"
	"github.com/registration-api/internal/storage/fallback"
	filestore "github.com/registration-api/internal/storage/file"
	"github.com/registration-api/internal/storage/redisstore"
	transporthttp "github.com/registration-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// The file store is both the development backend and the mirror for
	// degraded reads behind a remote backend.
	fileStore, err := filestore.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("file store: %v", err)
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = fallback.New(redisstore.New(client), fileStore)
	case "dynamo":
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		store = fallback.New(dynamo.New(client, cfg.DynamoTables), fileStore)
	default:
		store = fileStore
	}

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender is optional; without it the sms channel is rejected.
	var smsSender snsinfra.SMSSender
	if sender, err := snsinfra.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	var adminVerifier auth.CredentialVerifier
	if cfg.AdminPasswordHash != "" {
		adminVerifier = auth.NewBcrypt(cfg.AdminPasswordHash)
	} else {
		adminVerifier = auth.NewStatic(cfg.AdminPassword)
	}

	deps := &transporthttp.Deps{
		Store:         store,
		Mailer:        mailer,
		SMSSender:     smsSender,
		AdminVerifier: adminVerifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, storage=%s)", cfg.AppPort, cfg.AppEnv, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
