package stream

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/benjaminrust/network-intelligence-dev/internal/models"
)

type captureEmitter struct {
	alerts []models.Alert
}

func (c *captureEmitter) Emit(_ context.Context, alert models.Alert) {
	c.alerts = append(c.alerts, alert)
}

func TestMultiEmitterFansOut(t *testing.T) {
	first := &captureEmitter{}
	second := &captureEmitter{}
	multi := NewMultiEmitter(first, second)

	alert := models.Alert{ID: 7, Severity: models.SeverityHigh, Type: "intrusion"}
	multi.Emit(context.Background(), alert)

	for i, sink := range []*captureEmitter{first, second} {
		if len(sink.alerts) != 1 {
			t.Fatalf("sink %d received %d alerts, want 1", i, len(sink.alerts))
		}
		if sink.alerts[0].ID != 7 {
			t.Fatalf("sink %d received alert %d, want 7", i, sink.alerts[0].ID)
		}
	}
}

func TestMultiEmitterEmpty(t *testing.T) {
	NewMultiEmitter().Emit(context.Background(), models.Alert{ID: 1})
}

func TestLogEmitter(t *testing.T) {
	emitter := NewLogEmitter(zap.NewNop())
	emitter.Emit(context.Background(), models.Alert{
		ID:       1,
		Severity: models.SeverityCritical,
		Type:     "traffic_analysis",
		SourceIP: "203.0.113.5",
	})
}
