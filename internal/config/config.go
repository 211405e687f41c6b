package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Analyzer AnalyzerConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// AnalyzerConfig holds classification and orchestration settings.
type AnalyzerConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
	Concurrency   int     `mapstructure:"concurrency"`
	MaxFileSizeMB int64   `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the per-file upload limit in bytes.
func (a *AnalyzerConfig) MaxFileSizeBytes() int64 {
	return a.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the BATCHLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BATCHLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Analyzer defaults
	v.SetDefault("analyzer.min_confidence", 0.15)
	v.SetDefault("analyzer.concurrency", 4)
	v.SetDefault("analyzer.max_file_size_mb", 20)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "BATCHLENS_SERVER_PORT",
		"server.read_timeout":       "BATCHLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "BATCHLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":        "BATCHLENS_SERVER_ENVIRONMENT",
		"analyzer.min_confidence":   "BATCHLENS_ANALYZER_MIN_CONFIDENCE",
		"analyzer.concurrency":      "BATCHLENS_ANALYZER_CONCURRENCY",
		"analyzer.max_file_size_mb": "BATCHLENS_ANALYZER_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":      "BATCHLENS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated origins arrive as one string via env
	cfg.CORS.AllowedOrigins = splitOrigins(v.GetString("cors.allowed_origins"))

	if cfg.Analyzer.MinConfidence < 0 || cfg.Analyzer.MinConfidence > 1 {
		return nil, fmt.Errorf("analyzer.min_confidence must be in [0,1], got %v", cfg.Analyzer.MinConfidence)
	}

	return &cfg, nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
