package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the story webhook service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	// Environment toggles the non-production signature bypass. Anything other
	// than "development" requires a valid x-signature header on /webhook.
	Environment   string
	WebhookSecret string

	AllowAnyOrigin bool

	DatabaseURL string

	SceneRendererMode string
	SceneRendererURL  string
	OpenRouterAPIKey  string
	SceneModel        string
	SceneImageBaseURL string

	// RNGSeed seeds memento-type, confusion-template and world-context
	// selection. 0 means seed from the clock.
	RNGSeed int64
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "archivist"),
		Environment:       envOrDefault("APP_ENV", "production"),
		WebhookSecret:     strings.TrimSpace(os.Getenv("WEBHOOK_SECRET")),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SceneRendererMode: envOrDefault("SCENE_RENDERER_MODE", "auto"),
		SceneRendererURL:  envOrDefault("SCENE_RENDERER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		OpenRouterAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		SceneModel:        envOrDefault("SCENE_MODEL", "mistralai/mistral-7b-instruct:free"),
		SceneImageBaseURL: envOrDefault("SCENE_IMAGE_BASE_URL", "https://image.pollinations.ai"),
		ShutdownTimeout:   15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", false)
	if err != nil {
		return Config{}, err
	}
	cfg.RNGSeed, err = int64FromEnv("SCENE_RNG_SEED", 0)
	if err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SceneRendererMode)) {
	case "auto", "http", "mock":
	default:
		return Config{}, fmt.Errorf("invalid SCENE_RENDERER_MODE: %q (expected auto|http|mock)", cfg.SceneRendererMode)
	}

	return cfg, nil
}

// IsDevelopment reports whether the non-production signature bypass applies.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "development")
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func int64FromEnv(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
