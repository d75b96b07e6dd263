package constants

import "time"

const (
	SnapshotRefreshInterval = 10 * time.Minute
	SnapshotLoadTimeout     = 30 * time.Second
)

const (
	ExternalAPITimeout = 30 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LLMMaxTokens        = 1000
	LLMTemperature      = 0.1
	LLMRetryAttempts    = 3
	LLMRetryDelay       = 500 * time.Millisecond
	ClassifyConcurrency = 4
)
