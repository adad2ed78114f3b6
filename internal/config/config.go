package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains the full runtime configuration for the service.
// Values come from environment variables; a .env file is loaded first
// when present so local development works out of the box.
type Config struct {
	Environment string
	SecretKey   string

	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	ClickHouse ClickHouseConfig
	Logging    LoggingConfig
	Monitor    MonitorConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL      string
	PoolSize int
}

// KafkaConfig controls the optional alert stream. The service runs
// without Kafka when no brokers are configured.
type KafkaConfig struct {
	Brokers    []string
	AlertTopic string
}

// ClickHouseConfig controls the optional analytics warehouse sink.
type ClickHouseConfig struct {
	URL      string
	Database string
	Username string
	Password string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// MonitorConfig tunes the background network monitor.
type MonitorConfig struct {
	SweepInterval time.Duration
	StaleAfter    time.Duration
	EventBuckets  int
	StatsCacheTTL time.Duration
}

const devSecretKey = "dev-secret-key-change-in-production"

// LoadConfig reads configuration from the environment.
// DATABASE_URL is the only hard requirement; everything else has a
// development default or marks an optional dependency.
func LoadConfig() (*Config, error) {
	// Ignore the error: a missing .env file is the normal production case.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	secret := getEnv("SECRET_KEY", "")
	if secret == "" {
		if env == "production" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		secret = devSecretKey
	}

	cfg := &Config{
		Environment: env,
		SecretKey:   secret,
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 5000),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 50),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AlertTopic: getEnv("KAFKA_ALERT_TOPIC", "security-alerts"),
		},
		ClickHouse: ClickHouseConfig{
			URL:      strings.TrimSpace(os.Getenv("CLICKHOUSE_URL")),
			Database: getEnv("CLICKHOUSE_DATABASE", "network_intelligence"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultLogFormat(env)),
		},
		Monitor: MonitorConfig{
			SweepInterval: getEnvDuration("MONITOR_SWEEP_INTERVAL", time.Minute),
			StaleAfter:    getEnvDuration("MONITOR_STALE_AFTER", 24*time.Hour),
			EventBuckets:  getEnvInt("EVENT_BUCKETS", 64),
			StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),
		},
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// KafkaEnabled reports whether the alert stream should be started.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// ClickHouseEnabled reports whether the analytics warehouse sink is configured.
func (c *Config) ClickHouseEnabled() bool {
	return c.ClickHouse.URL != ""
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
