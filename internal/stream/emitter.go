package stream

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/client"
	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

// AlertChannel is the Redis pub/sub channel real-time dashboard consumers
// subscribe to.
const AlertChannel = "security_alerts"

// Emitter publishes alerts to downstream consumers. Emit must not fail the
// request path: implementations log and drop on error.
type Emitter interface {
	Emit(ctx context.Context, alert models.Alert)
}

// LogEmitter writes alerts to the service log. Always installed so alerts
// are visible even with no broker configured.
type LogEmitter struct {
	logger *zap.Logger
}

func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(_ context.Context, alert models.Alert) {
	e.logger.Info("Security alert",
		zap.Int64("alert_id", alert.ID),
		zap.String("severity", alert.Severity),
		zap.String("type", alert.Type),
		zap.String("source_ip", alert.SourceIP),
		zap.String("description", alert.Description),
	)
}

// RedisEmitter publishes alerts on the pub/sub channel for live dashboards.
type RedisEmitter struct {
	client  *client.RedisClient
	channel string
	logger  *zap.Logger
}

func NewRedisEmitter(client *client.RedisClient, logger *zap.Logger) *RedisEmitter {
	return &RedisEmitter{client: client, channel: AlertChannel, logger: logger}
}

func (e *RedisEmitter) Emit(ctx context.Context, alert models.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		e.logger.Error("failed to marshal alert for pub/sub", zap.Error(err))
		return
	}
	if err := e.client.Publish(ctx, e.channel, payload); err != nil {
		e.logger.Error("failed to publish alert",
			zap.String("channel", e.channel), zap.Error(err))
	}
}

// KafkaEmitter forwards alerts to the configured Kafka topic for external
// pipelines (SIEM ingestion, long-term archival).
type KafkaEmitter struct {
	producer *client.KafkaProducer
	logger   *zap.Logger
}

func NewKafkaEmitter(producer *client.KafkaProducer, logger *zap.Logger) *KafkaEmitter {
	return &KafkaEmitter{producer: producer, logger: logger}
}

func (e *KafkaEmitter) Emit(ctx context.Context, alert models.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		e.logger.Error("failed to marshal alert for kafka", zap.Error(err))
		return
	}

	headers := map[string]string{
		"severity": alert.Severity,
		"type":     alert.Type,
	}
	key := []byte(strconv.FormatInt(alert.ID, 10))
	if err := e.producer.ProduceMessage(ctx, key, payload, headers); err != nil {
		e.logger.Error("failed to produce alert to kafka", zap.Error(err))
	}
}

// MultiEmitter fans one alert out to every configured sink.
type MultiEmitter struct {
	emitters []Emitter
}

func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

func (m *MultiEmitter) Emit(ctx context.Context, alert models.Alert) {
	for _, e := range m.emitters {
		e.Emit(ctx, alert)
	}
}
