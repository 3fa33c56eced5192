package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"restaurant-service/events"
)

// MetricsRecorder is satisfied by the CloudWatch metrics client.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// EventPublisher is satisfied by *events.Emitter.
type EventPublisher interface {
	Emit(ctx context.Context, evt events.OrderEvent)
}

// IdentityCache is satisfied by *cache.IdentityCache.
type IdentityCache interface {
	Get(ctx context.Context, kind, key string) (int64, bool, error)
	Set(ctx context.Context, kind, key string, id int64) error
}

// metricsSink records metrics without letting their failures leak into
// business results.
type metricsSink struct {
	recorder MetricsRecorder
	service  string
	logger   *zap.Logger
}

func (m metricsSink) count(ctx context.Context, name string, extra map[string]string) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordCount(context.WithoutCancel(ctx), name, m.dimensions(extra)); err != nil {
		m.logger.Debug("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}

func (m metricsSink) latency(ctx context.Context, name string, d time.Duration, extra map[string]string) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordLatency(context.WithoutCancel(ctx), name, d, m.dimensions(extra)); err != nil {
		m.logger.Debug("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}

func (m metricsSink) dimensions(extra map[string]string) map[string]string {
	dims := map[string]string{"Service": m.service}
	for k, v := range extra {
		dims[k] = v
	}
	return dims
}
