package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"GoRAGService/app/configs"
	"GoRAGService/app/models"
	"GoRAGService/app/rag"
	"GoRAGService/app/server"
	"GoRAGService/app/service"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("🔑 Loaded environment from .env")
	}

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := configs.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	provider := buildProvider(cfg.Provider)
	store, vectorSize, err := buildStore(cfg.Store)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer store.Close()

	if err = store.Init(context.Background(), vectorSize); err != nil {
		log.Fatalf("❌ Init vector store: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(
		service.NewKnowledge(provider, store),
		service.NewAnswerer(provider, store, cfg.Retrieval.TopK, cfg.Provider.MaxAnswerTokens),
	)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("🚀 Serving on %s (store=%s, provider=%s)", cfg.Server.Address, cfg.Store.Type, cfg.Provider.Type)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ HTTP server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}

func buildProvider(cfg configs.ProviderConfig) models.Interface {
	switch cfg.Type {
	case "ollama":
		return models.NewOllamaClient(cfg.BaseURL, cfg.Model, cfg.EmbeddingModel)
	default:
		var apiKey string
		if cfg.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.APIKeyEnv)
		}
		return models.NewOpenAIClient(cfg.BaseURL, apiKey, cfg.Model, cfg.EmbeddingModel)
	}
}

func buildStore(cfg configs.StoreConfig) (rag.Store, int, error) {
	switch cfg.Type {
	case "qdrant":
		store, err := rag.NewQdrantStore(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
		if err != nil {
			return nil, 0, err
		}
		return store, cfg.Qdrant.VectorSize, nil
	case "sqlite":
		store, err := rag.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, 0, err
		}
		return store, 0, nil
	}
	return nil, 0, fmt.Errorf("unknown store type %q", cfg.Type)
}
