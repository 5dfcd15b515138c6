package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Limits   model.Limits
	Draft    DraftConfig
	Currency CurrencyConfig
	Queue    QueueConfig
}

type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DraftConfig struct {
	TTL time.Duration
}

type CurrencyConfig struct {
	Default    string
	Currencies []string
}

type QueueConfig struct {
	Backend string // memory | redis
	Buffer  int
}

var AppConfig *Config

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithComponent("config").Warn("failed to load .env", zap.Error(err))
	}

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Limits:   GetLimits(),
		Draft:    GetDraftConfig(),
		Currency: GetCurrencyConfig(),
		Queue:    GetQueueConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // test database listens on 5433
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // test redis listens on 6380
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "test", LogLevel: "debug"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Limits:   model.DefaultLimits(),
		Draft:    DraftConfig{TTL: time.Hour},
		Currency: CurrencyConfig{Default: "USD", Currencies: []string{"USD", "EUR", "GBP"}},
		Queue:    QueueConfig{Backend: "memory", Buffer: 16},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:     getEnv("SERVER_PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// GetLimits reads the engine capacity limits; zero or negative values fall back to the defaults.
func GetLimits() model.Limits {
	def := model.DefaultLimits()
	return model.Limits{
		MaxGroups: getEnvInt("MAX_GROUPS", def.MaxGroups),
		MaxAreas:  getEnvInt("MAX_AREAS", def.MaxAreas),
		MaxTiers:  getEnvInt("MAX_TIERS", def.MaxTiers),
		MaxSlots:  getEnvInt("MAX_SLOTS", def.MaxSlots),
	}.Normalize()
}

func GetDraftConfig() DraftConfig {
	ttl, err := time.ParseDuration(getEnv("DRAFT_TTL", "72h"))
	if err != nil || ttl <= 0 {
		logger.WithComponent("config").Warn("invalid DRAFT_TTL, using default", zap.Error(err))
		ttl = 72 * time.Hour
	}
	return DraftConfig{TTL: ttl}
}

func GetCurrencyConfig() CurrencyConfig {
	codes := make([]string, 0)
	for _, code := range strings.Split(getEnv("CURRENCIES", "USD,EUR,GBP,AUD,CAD,NZD"), ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return CurrencyConfig{
		Default:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		Currencies: codes,
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Backend: getEnv("QUEUE_BACKEND", "memory"),
		Buffer:  getEnvInt("QUEUE_BUFFER", 256),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logger.WithComponent("config").Warn("invalid integer env, using default",
			zap.String("key", key), zap.String("value", raw), zap.Int("default", fallback))
		return fallback
	}
	return n
}
