package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/hati-ai/hati-agent/internal/adapters/cache/redis"
	"github.com/hati-ai/hati-agent/internal/adapters/content/giphy"
	"github.com/hati-ai/hati-agent/internal/adapters/content/places"
	"github.com/hati-ai/hati-agent/internal/adapters/content/spotify"
	"github.com/hati-ai/hati-agent/internal/adapters/content/tmdb"
	httpadapter "github.com/hati-ai/hati-agent/internal/adapters/http"
	"github.com/hati-ai/hati-agent/internal/adapters/llm"
	firestorestore "github.com/hati-ai/hati-agent/internal/adapters/storage/firestore"
	memstore "github.com/hati-ai/hati-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/hati-ai/hati-agent/internal/adapters/storage/sqlite"
	"github.com/hati-ai/hati-agent/internal/app/manager"
	"github.com/hati-ai/hati-agent/internal/app/specialists"
	"github.com/hati-ai/hati-agent/internal/config"
	"github.com/hati-ai/hati-agent/internal/domain"
	"github.com/hati-ai/hati-agent/internal/observability"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		observability.Logger().Error("hati api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// LLM: mock in local mode, Gemini on GCP.
	var llmClient domain.LLMClient
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Info("using Gemini LLM client", "project", cfg.GCPProjectID, "model", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return fmt.Errorf("initializing Gemini client: %w", err)
		}
	}

	// Storage: memory, sqlite or firestore.
	var (
		profiles      domain.ProfileStore
		conversations domain.ConversationStore
		sqliteCache   domain.ResponseCache
	)
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return fmt.Errorf("initializing Firestore store: %w", err)
		}
		profiles = store
		conversations = store

	case "sqlite":
		log.Info("using SQLite storage", "path", cfg.SQLitePath)
		store, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("initializing SQLite store: %w", err)
		}
		defer store.Close()
		profiles = store
		conversations = store
		sqliteCache = store.Cache()

	default:
		log.Info("using in-memory storage")
		profiles = memstore.NewProfileStore()
		conversations = memstore.NewConversationStore()
	}

	// Response cache: redis, the sqlite store's cache table, or memory.
	var responseCache domain.ResponseCache
	switch {
	case cfg.CacheBackend == "redis":
		log.Info("using redis cache", "addr", cfg.RedisAddr)
		redisCache := redis.NewCache(cfg.RedisAddr)
		defer redisCache.Close()
		responseCache = redisCache
	case sqliteCache != nil:
		log.Info("using sqlite cache")
		responseCache = sqliteCache
	default:
		log.Info("using in-memory cache")
		responseCache = memstore.NewCache()
	}

	// Content providers. A missing key leaves the source nil and the
	// owning specialist degrades for that source.
	var trackCatalog specialists.TrackCatalog
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		trackCatalog = spotify.NewClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	} else {
		log.Warn("spotify credentials missing, music recommendations disabled")
	}

	var gifSource specialists.GifSource
	if cfg.GiphyAPIKey != "" {
		gifSource = giphy.NewClient(cfg.GiphyAPIKey)
	} else {
		log.Warn("giphy api key missing, gif recommendations disabled")
	}

	var movieSource specialists.MovieSource
	if cfg.TMDBAPIKey != "" {
		movieSource = tmdb.NewClient(cfg.TMDBAPIKey)
	} else {
		log.Warn("tmdb api key missing, movie recommendations disabled")
	}

	var placeSource specialists.PlaceSource
	if cfg.FoursquareAPIKey != "" {
		placeSource = places.NewClient(cfg.FoursquareAPIKey)
	} else {
		log.Warn("foursquare api key missing, place recommendations disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	svc := manager.NewService(
		llmClient,
		profiles,
		conversations,
		metrics,
		specialists.NewMusicAgent(trackCatalog, responseCache, cfg.CacheTTL),
		specialists.NewEntertainmentAgent(gifSource, movieSource, rng),
		specialists.NewRelaxationAgent(placeSource),
		specialists.NewReflectionAgent(),
	)

	// Periodic expired-cache purge.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CleanupSchedule, func() {
		removed := responseCache.PurgeExpired(context.Background())
		log.Info("cache cleanup ran", "entries_removed", removed)
	}); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := httpadapter.NewServer(svc, responseCache, registry)
	handler = httpadapter.WithTimeout(handler, cfg.CallTimeout)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	log.Info("hati api listening", "addr", srv.Addr, "mode", cfg.Mode)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
