package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"staybook/pkg/credential"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/sanitizer"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL    string
	ClientTimeout time.Duration

	CredentialBackend string
	CredentialPath    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
	RedisTTL      time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	KafkaBrokers     []string
	KafkaTopic       string
	KafkaCompression string
	KafkaAsync       bool

	Port          string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log *logger.Logger
}

// Load reads .env (when present) and the environment, and exits on invalid
// configuration.
func Load(serviceName string) *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.New(logger.Config{Service: serviceName}).Warn("could not read .env", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	cfg, err := FromViper(v, serviceName)
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(EnvAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(EnvClientTimeout, DefaultClientTimeout)

	v.SetDefault(EnvCredentialBackend, DefaultCredentialBackend)
	v.SetDefault(EnvCredentialPath, defaultCredentialPath())

	v.SetDefault(EnvRedisAddr, DefaultRedisAddr)
	v.SetDefault(EnvRedisKey, DefaultRedisKey)
	v.SetDefault(EnvRedisTTL, DefaultRedisTTL)

	v.SetDefault(EnvLogLevel, DefaultLogLevel)
	v.SetDefault(EnvLogFormat, DefaultLogFormat)

	v.SetDefault(EnvKafkaTopic, DefaultKafkaTopic)
	v.SetDefault(EnvKafkaCompression, DefaultKafkaCompression)

	v.SetDefault(EnvPort, DefaultPort)
	v.SetDefault(EnvTokenTTL, DefaultTokenTTL)
	v.SetDefault(EnvAdminName, DefaultAdminName)
	v.SetDefault(EnvAdminEmail, DefaultAdminEmail)
	v.SetDefault(EnvAdminPassword, DefaultAdminPassword)

	v.SetDefault(EnvRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(EnvMaxRequestSize, DefaultMaxRequestSize)

	v.SetDefault(EnvReadTimeout, DefaultReadTimeout)
	v.SetDefault(EnvWriteTimeout, DefaultWriteTimeout)
	v.SetDefault(EnvIdleTimeout, DefaultIdleTimeout)
	v.SetDefault(EnvShutdownTimeout, DefaultShutdownTimeout)
}

// FromViper builds a Config from v. The returned Config always carries a
// logger, even when validation fails.
func FromViper(v *viper.Viper, serviceName string) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		APIBaseURL:    sanitizer.NormalizeBaseURL(v.GetString(EnvAPIBaseURL)),
		ClientTimeout: v.GetDuration(EnvClientTimeout),

		CredentialBackend: strings.ToLower(v.GetString(EnvCredentialBackend)),
		CredentialPath:    v.GetString(EnvCredentialPath),

		RedisAddr:     v.GetString(EnvRedisAddr),
		RedisPassword: v.GetString(EnvRedisPassword),
		RedisDB:       v.GetInt(EnvRedisDB),
		RedisKey:      v.GetString(EnvRedisKey),
		RedisTTL:      v.GetDuration(EnvRedisTTL),

		LogLevel:  strings.ToLower(v.GetString(EnvLogLevel)),
		LogFormat: strings.ToLower(v.GetString(EnvLogFormat)),
		LogFile:   v.GetString(EnvLogFile),

		KafkaBrokers:     splitList(v.GetString(EnvKafkaBrokers)),
		KafkaTopic:       v.GetString(EnvKafkaTopic),
		KafkaCompression: v.GetString(EnvKafkaCompression),
		KafkaAsync:       v.GetBool(EnvKafkaAsync),

		Port:          v.GetString(EnvPort),
		JWTSecret:     v.GetString(EnvJWTSecret),
		TokenTTL:      v.GetDuration(EnvTokenTTL),
		AdminName:     v.GetString(EnvAdminName),
		AdminEmail:    sanitizer.NormalizeEmail(v.GetString(EnvAdminEmail)),
		AdminPassword: v.GetString(EnvAdminPassword),

		RequestTimeout: v.GetDuration(EnvRequestTimeout),
		MaxRequestSize: v.GetInt(EnvMaxRequestSize),

		ReadTimeout:     v.GetDuration(EnvReadTimeout),
		WriteTimeout:    v.GetDuration(EnvWriteTimeout),
		IdleTimeout:     v.GetDuration(EnvIdleTimeout),
		ShutdownTimeout: v.GetDuration(EnvShutdownTimeout),
	}

	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
		Service: serviceName,
	})

	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	var errors []string

	if cfg.APIBaseURL == "" {
		errors = append(errors, "APIBaseURL cannot be empty")
	}
	if cfg.ClientTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ClientTimeout must be positive, got: %s", cfg.ClientTimeout))
	}

	switch cfg.CredentialBackend {
	case BackendFile:
		if cfg.CredentialPath == "" {
			errors = append(errors, "CredentialPath cannot be empty for the file backend")
		}
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty for the redis backend")
		}
		if cfg.RedisTTL < 0 {
			errors = append(errors, fmt.Sprintf("RedisTTL cannot be negative, got: %s", cfg.RedisTTL))
		}
	default:
		errors = append(errors, fmt.Sprintf("CredentialBackend must be one of [file, memory, redis], got: %s", cfg.CredentialBackend))
	}

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errors = append(errors, "KafkaTopic cannot be empty when KafkaBrokers is set")
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if cfg.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("TokenTTL must be positive, got: %s", cfg.TokenTTL))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Debug("Configuration loaded successfully",
		"api_base_url", cfg.APIBaseURL,
		"client_timeout", cfg.ClientTimeout,
		"credential_backend", cfg.CredentialBackend,
		"credential_path", cfg.CredentialPath,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"token_ttl", cfg.TokenTTL,
		"admin_email", cfg.AdminEmail,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
	)
}

// CredentialStore opens the configured token store. JWT expiry is enforced on
// every backend.
func (cfg *Config) CredentialStore() credential.Store {
	var store credential.Store
	switch cfg.CredentialBackend {
	case BackendMemory:
		store = credential.NewMemoryStore()
	case BackendRedis:
		client := credential.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store = credential.NewRedisStore(client, cfg.RedisKey, cfg.RedisTTL)
	default:
		store = credential.NewFileStore(cfg.CredentialPath)
	}
	return credential.WithExpiry(store, time.Now)
}

// KafkaEnabled reports whether events should be exported.
func (cfg *Config) KafkaEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) Kafka() kafka.Config {
	return kafka.Config{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic,
		Compression: cfg.KafkaCompression,
		Async:       cfg.KafkaAsync,
		RequireAcks: 1,
	}
}

func defaultCredentialPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultCredentialFile
	}
	return filepath.Join(home, DefaultCredentialFile)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
