package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"laptoploan/pkg/kafka"
)

// PublishMetrics counts publish attempts made through a producer.
type PublishMetrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64
}

type PublishSnapshot struct {
	Published          int64         `json:"published"`
	Failed             int64         `json:"failed"`
	AvgPublishDuration time.Duration `json:"avg_publish_duration_ns"`
}

func NewPublishMetrics() *PublishMetrics {
	return &PublishMetrics{}
}

func (m *PublishMetrics) Middleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.durationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.failed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

func (m *PublishMetrics) Snapshot() PublishSnapshot {
	published := m.published.Load()
	failed := m.failed.Load()

	var avg time.Duration
	if total := published + failed; total > 0 {
		avg = time.Duration(m.durationTotal.Load() / total)
	}

	return PublishSnapshot{
		Published:          published,
		Failed:             failed,
		AvgPublishDuration: avg,
	}
}

func (m *PublishMetrics) Reset() {
	m.published.Store(0)
	m.failed.Store(0)
	m.durationTotal.Store(0)
}
