package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	OpenAIAPIKey           string
	EvaluationModel        string
	EvaluationTimeout      time.Duration
	ReportCacheTTL         time.Duration
	UploadMaxBytes         int64
	TranscriptionEnabled   bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("VOXERA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Voxera API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "voxera/recordings")
	v.SetDefault("evaluation.model", "gpt-4o-mini")
	v.SetDefault("evaluation.timeout", "60s")
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("upload.max_mb", 25)
	v.SetDefault("transcription.enabled", true)

	evalTimeout, err := parseDuration(v.GetString("evaluation.timeout"), "60s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation timeout: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("report.cache_ttl"), "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	uploadMaxMB := v.GetInt64("upload.max_mb")
	if uploadMaxMB <= 0 {
		uploadMaxMB = 25
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		EvaluationModel:        v.GetString("evaluation.model"),
		EvaluationTimeout:      evalTimeout,
		ReportCacheTTL:         cacheTTL,
		UploadMaxBytes:         uploadMaxMB * 1024 * 1024,
		TranscriptionEnabled:   v.GetBool("transcription.enabled"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(raw, fallback string) (time.Duration, error) {
	if raw == "" {
		raw = fallback
	}
	return time.ParseDuration(raw)
}
