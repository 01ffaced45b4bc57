package config

import "strings"

const (
	storageBackendVar = "STORAGE_BACKEND"
	redisAddrVar      = "REDIS_ADDR"
	redisPasswordVar  = "REDIS_PASSWORD"
	redisDBVar        = "REDIS_DB"
	redisPrefixVar    = "REDIS_PREFIX"

	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageBackend() string {
	return strings.ToLower(GetEnv(storageBackendVar, StorageFile))
}

func (Storage) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "localhost:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv(redisPasswordVar, "")
}

func (Storage) GetRedisDB() int {
	return GetEnvInt(redisDBVar, 0)
}

func (Storage) GetRedisPrefix() string {
	return GetEnv(redisPrefixVar, "authfront")
}
