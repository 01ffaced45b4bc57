package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	APIConfig
	StorageConfig
	MockAPIConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// APIConfig describes the remote authentication API the frontend talks to.
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetRedirectDelay() time.Duration
}

// StorageConfig selects where session entries are persisted.
type StorageConfig interface {
	GetStorageBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

// MockAPIConfig configures the development backend served by `authfront mock-api`.
type MockAPIConfig interface {
	GetMockAPIPort() string
	GetMockAPILatency() time.Duration
	GetMockAPISigningKey() string
	GetMockAPIUsersFile() string
}

type mainConfig struct {
	EnvVars
	Cors
	API
	Storage
	MockAPI
}

func New() Config {
	return mainConfig{}
}
