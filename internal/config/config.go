package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode
	Port string

	// LLM (Gemini via Vertex AI)
	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool // true = use mock even on GCP

	// Content providers
	SpotifyClientID     string
	SpotifyClientSecret string
	GiphyAPIKey         string
	TMDBAPIKey          string
	FoursquareAPIKey    string

	StorageBackend string // "memory", "sqlite" or "firestore"
	SQLitePath     string

	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	CacheTTL     time.Duration

	// One-shot timeout applied to every outbound LLM / provider call.
	CallTimeout time.Duration

	// Cron spec for the expired-cache purge.
	CleanupSchedule string
}

// Load reads settings from the environment (HATI_ prefix) with local
// defaults. The only hard requirement is a GCP project in gcp mode.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HATI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("storage_backend", "memory")
	v.SetDefault("sqlite_path", "data/hati.db")
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("cache_ttl", "2h")
	v.SetDefault("call_timeout", "30s")
	v.SetDefault("cleanup_schedule", "@hourly")

	mode := ModeLocal
	if v.GetString("mode") == "gcp" {
		mode = ModeGCP
	}

	useMock := mode == ModeLocal
	if v.IsSet("use_mock_llm") {
		useMock = v.GetBool("use_mock_llm")
	}

	cfg := &Config{
		Mode: mode,
		Port: v.GetString("port"),

		GCPProjectID: v.GetString("gcp_project"),
		GCPLocation:  v.GetString("gcp_location"),
		ModelName:    v.GetString("model_name"),
		UseMockLLM:   useMock,

		SpotifyClientID:     v.GetString("spotify_client_id"),
		SpotifyClientSecret: v.GetString("spotify_client_secret"),
		GiphyAPIKey:         v.GetString("giphy_api_key"),
		TMDBAPIKey:          v.GetString("tmdb_api_key"),
		FoursquareAPIKey:    v.GetString("foursquare_api_key"),

		StorageBackend: v.GetString("storage_backend"),
		SQLitePath:     v.GetString("sqlite_path"),

		CacheBackend: v.GetString("cache_backend"),
		RedisAddr:    v.GetString("redis_addr"),
		CacheTTL:     v.GetDuration("cache_ttl"),

		CallTimeout:     v.GetDuration("call_timeout"),
		CleanupSchedule: v.GetString("cleanup_schedule"),
	}

	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("HATI_GCP_PROJECT must be set in gcp mode")
	}

	return cfg, nil
}
