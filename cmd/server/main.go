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

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"taskwise/internal/ai"
	"taskwise/internal/config"
	"taskwise/internal/database"
	"taskwise/internal/server"
	"taskwise/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	manager := storage.NewManager(func(ctx context.Context) (storage.Storage, error) {
		db, err := database.Open(cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStorage(db), nil
	}, cfg.Database.ProbeTimeout)

	// Probe eagerly so every request sees a settled decision.
	manager.Get(context.Background())
	info := manager.Info()
	log.Printf("Storage backend: %s (%s)", info.Kind, info.Message)

	var aiOpts []ai.Option
	if cfg.OpenAI.BaseURL != "" {
		aiOpts = append(aiOpts, ai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	aiClient := ai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, aiOpts...)

	srv := server.New(manager, aiClient)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: c.Handler(srv.Routes()),
	}

	go func() {
		log.Printf("API server is running on :%s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server shutdown complete")
}
