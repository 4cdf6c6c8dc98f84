package config

const (
	EnvAPIBaseURL    = "STAYBOOK_API_URL"
	EnvClientTimeout = "STAYBOOK_CLIENT_TIMEOUT"

	EnvCredentialBackend = "STAYBOOK_CREDENTIAL_BACKEND"
	EnvCredentialPath    = "STAYBOOK_CREDENTIAL_PATH"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvRedisKey      = "REDIS_KEY"
	EnvRedisTTL      = "REDIS_TTL"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvLogFile   = "LOG_FILE"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaTopic       = "KAFKA_TOPIC"
	EnvKafkaCompression = "KAFKA_COMPRESSION"
	EnvKafkaAsync       = "KAFKA_ASYNC"

	EnvPort          = "PORT"
	EnvJWTSecret     = "JWT_SECRET"
	EnvTokenTTL      = "TOKEN_TTL"
	EnvAdminName     = "ADMIN_NAME"
	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
