package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	pkgkafka "MarketBoard/pkg/kafka"
)

// ActivityHandler consumes activity events from Kafka and stores them.
type ActivityHandler struct {
	topic   string
	storage domrepo.ActivityStorage
	metrics domrepo.Metrics
}

func NewActivityHandler(topic string, storage domrepo.ActivityStorage, metrics domrepo.Metrics) *ActivityHandler {
	return &ActivityHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *ActivityHandler) Topic() string { return h.topic }

func (h *ActivityHandler) Handle(ctx context.Context, b []byte) error {
	var a models.Activity
	if err := json.Unmarshal(b, &a); err != nil {
		h.recordError("consumer_unmarshal")
		return fmt.Errorf("decode activity: %w", err)
	}
	if a.Symbol == "" || a.At.IsZero() {
		h.recordError("consumer_invalid")
		return fmt.Errorf("activity missing symbol or time: %w", ErrInvalidInput)
	}

	start := time.Now()
	err := h.storage.Store(ctx, &a)
	if h.metrics != nil {
		h.metrics.RecordLatency("activity_ingest_e2e", time.Since(a.At).Seconds())
		h.metrics.RecordLatency("ch_insert", time.Since(start).Seconds())
	}
	if err != nil {
		h.recordError("consumer_store")
		return fmt.Errorf("store activity: %w", err)
	}
	if h.metrics != nil {
		h.metrics.RecordActivity("clickhouse", a.Type)
	}
	return nil
}

func (h *ActivityHandler) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordError(kind)
	}
}

var _ pkgkafka.MessageHandler = (*ActivityHandler)(nil)
