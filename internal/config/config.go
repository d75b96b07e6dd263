package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cricket-query/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath          string
	DataDir         string
	ServerPort      string
	LogLevel        string
	SnapshotRefresh time.Duration

	LLMProvider    string
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "cricket.db"),
		DataDir:    getEnv("DATA_DIR", "matchspecific"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
		LLMModel:    getEnv("LLM_MODEL", ""),
	}

	var err error
	if cfg.SnapshotRefresh, err = getDuration("SNAPSHOT_REFRESH", constants.SnapshotRefreshInterval); err != nil {
		return nil, err
	}
	if cfg.LLMMaxTokens, err = getInt("LLM_MAX_TOKENS", constants.LLMMaxTokens); err != nil {
		return nil, err
	}
	if cfg.LLMTemperature, err = getFloat("LLM_TEMPERATURE", constants.LLMTemperature); err != nil {
		return nil, err
	}

	if cfg.SnapshotRefresh < 0 {
		return nil, fmt.Errorf("SNAPSHOT_REFRESH must not be negative")
	}

	if cfg.LLMAPIKey == "" {
		logger.Warn().Msg("LLM_API_KEY not set, query classification is disabled")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("data_dir", cfg.DataDir).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Dur("snapshot_refresh", cfg.SnapshotRefresh).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

var Module = fx.Provide(Load)
