package config

import "time"

const (
	DefaultAPIBaseURL    = "http://localhost:8000/api"
	DefaultClientTimeout = 10 * time.Second

	DefaultCredentialBackend = BackendFile
	DefaultCredentialFile    = ".staybook/auth.json"

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisKey  = "staybook:auth"
	DefaultRedisTTL  = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultKafkaTopic       = "staybook.events"
	DefaultKafkaCompression = "snappy"

	DefaultPort          = "8000"
	DefaultTokenTTL      = 24 * time.Hour
	DefaultAdminName     = "Administrator"
	DefaultAdminEmail    = "admin@staybook.local"
	DefaultAdminPassword = "admin123"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB, hotel photos included

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
