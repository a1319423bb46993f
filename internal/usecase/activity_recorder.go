package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketBoard/internal/domain/models"
	drepo "MarketBoard/internal/domain/repository"
)

// ActivityRecorder routes view events to the configured backend.
type ActivityRecorder struct {
	pub     drepo.ActivityPublisher
	store   drepo.ActivityStorage
	metrics drepo.Metrics
	backend drepo.ActivityBackend
}

func NewActivityRecorder(
	pub drepo.ActivityPublisher,
	store drepo.ActivityStorage,
	metrics drepo.Metrics,
	backend drepo.ActivityBackend,
) *ActivityRecorder {
	return &ActivityRecorder{pub: pub, store: store, metrics: metrics, backend: backend}
}

func (r *ActivityRecorder) Backend() drepo.ActivityBackend { return r.backend }

// Process records a single event. The none backend drops it.
func (r *ActivityRecorder) Process(ctx context.Context, a *models.Activity) error {
	if a == nil {
		return fmt.Errorf("activity is nil")
	}
	start := time.Now()
	var err error

	switch r.backend {
	case drepo.BackendNone:
		return nil
	case drepo.BackendKafka:
		if r.pub == nil {
			return fmt.Errorf("kafka backend without publisher")
		}
		err = r.pub.Publish(ctx, a)
	case drepo.BackendClickHouse:
		if r.store == nil {
			return fmt.Errorf("clickhouse backend without storage")
		}
		err = r.store.Store(ctx, a)
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.recordError("activity_record")
		return fmt.Errorf("record activity: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordActivity(string(r.backend), a.Type)
		r.metrics.RecordLatency("activity_record", time.Since(start).Seconds())
	}
	return nil
}

// ProcessBatch records multiple events in one call.
func (r *ActivityRecorder) ProcessBatch(ctx context.Context, events []*models.Activity) error {
	if len(events) == 0 || r.backend == drepo.BackendNone {
		return nil
	}
	start := time.Now()
	var err error

	switch r.backend {
	case drepo.BackendKafka:
		if r.pub == nil {
			return fmt.Errorf("kafka backend without publisher")
		}
		err = r.pub.PublishBatch(ctx, events)
	case drepo.BackendClickHouse:
		if r.store == nil {
			return fmt.Errorf("clickhouse backend without storage")
		}
		err = r.store.StoreBatch(ctx, events)
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.recordError("activity_record_batch")
		return fmt.Errorf("record batch: %w", err)
	}
	if r.metrics != nil {
		for _, a := range events {
			r.metrics.RecordActivity(string(r.backend), a.Type)
		}
		r.metrics.RecordLatency("activity_record_batch", time.Since(start).Seconds())
	}
	return nil
}

// Close closes underlying resources if available.
func (r *ActivityRecorder) Close() {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}

func (r *ActivityRecorder) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}
