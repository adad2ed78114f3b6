package config

import (
	"testing"
	"time"
)

// clearConfigEnv resets every variable LoadConfig reads so tests do not
// leak state into each other.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "DATABASE_URL", "SECRET_KEY", "PORT",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"REDIS_URL", "REDIS_POOL_SIZE",
		"KAFKA_BROKERS", "KAFKA_ALERT_TOPIC",
		"CLICKHOUSE_URL", "CLICKHOUSE_DATABASE", "CLICKHOUSE_USERNAME", "CLICKHOUSE_PASSWORD",
		"LOG_LEVEL", "LOG_FORMAT",
		"MONITOR_SWEEP_INTERVAL", "MONITOR_STALE_AFTER", "EVENT_BUCKETS", "STATS_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/netintel")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("environment = %q, want development", cfg.Environment)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379" {
		t.Errorf("redis url = %q", cfg.Redis.URL)
	}
	if cfg.Kafka.AlertTopic != "security-alerts" {
		t.Errorf("alert topic = %q", cfg.Kafka.AlertTopic)
	}
	if cfg.KafkaEnabled() {
		t.Error("kafka enabled without brokers")
	}
	if cfg.ClickHouseEnabled() {
		t.Error("clickhouse enabled without url")
	}
	if cfg.Monitor.SweepInterval != time.Minute {
		t.Errorf("sweep interval = %v, want 1m", cfg.Monitor.SweepInterval)
	}
	if cfg.Monitor.StaleAfter != 24*time.Hour {
		t.Errorf("stale after = %v, want 24h", cfg.Monitor.StaleAfter)
	}
	if cfg.Monitor.EventBuckets != 64 {
		t.Errorf("event buckets = %d, want 64", cfg.Monitor.EventBuckets)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("log format = %q, want console in development", cfg.Logging.Format)
	}
	if cfg.ServerAddress() != ":5000" {
		t.Errorf("server address = %q, want :5000", cfg.ServerAddress())
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("development config misclassified")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	clearConfigEnv(t)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig succeeded without DATABASE_URL")
	}
}

func TestLoadConfigSecretKey(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/netintel")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SecretKey == "" {
		t.Fatal("development secret key fallback missing")
	}

	t.Setenv("APP_ENV", "production")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig succeeded in production without SECRET_KEY")
	}

	t.Setenv("SECRET_KEY", "super-secret")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SecretKey != "super-secret" {
		t.Errorf("secret key = %q", cfg.SecretKey)
	}
	if !cfg.IsProduction() {
		t.Error("production config misclassified")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format = %q, want json in production", cfg.Logging.Format)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db:5432/netintel")
	t.Setenv("PORT", "8080")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092 ,")
	t.Setenv("CLICKHOUSE_URL", "clickhouse://warehouse:9000")
	t.Setenv("MONITOR_SWEEP_INTERVAL", "30s")
	t.Setenv("EVENT_BUCKETS", "128")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker1:9092" || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if !cfg.KafkaEnabled() {
		t.Error("kafka not enabled with brokers set")
	}
	if !cfg.ClickHouseEnabled() {
		t.Error("clickhouse not enabled with url set")
	}
	if cfg.Monitor.SweepInterval != 30*time.Second {
		t.Errorf("sweep interval = %v, want 30s", cfg.Monitor.SweepInterval)
	}
	if cfg.Monitor.EventBuckets != 128 {
		t.Errorf("event buckets = %d, want 128", cfg.Monitor.EventBuckets)
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db:5432/netintel")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("MONITOR_STALE_AFTER", "yesterday")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want default 5000 on parse failure", cfg.Server.Port)
	}
	if cfg.Monitor.StaleAfter != 24*time.Hour {
		t.Errorf("stale after = %v, want default 24h on parse failure", cfg.Monitor.StaleAfter)
	}
}
