package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
)

type memPublisher struct {
	sent []*models.Activity
	err  error
}

func (p *memPublisher) Publish(_ context.Context, a *models.Activity) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, a)
	return nil
}

func (p *memPublisher) PublishBatch(ctx context.Context, events []*models.Activity) error {
	for _, a := range events {
		if err := p.Publish(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (p *memPublisher) Close() error { return nil }

type memStorage struct {
	stubStore
	stored []*models.Activity
	err    error
}

func (s *memStorage) Store(_ context.Context, a *models.Activity) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, a)
	return nil
}

func (s *memStorage) StoreBatch(_ context.Context, events []*models.Activity) error {
	s.stored = append(s.stored, events...)
	return nil
}

func sampleActivity() *models.Activity {
	return &models.Activity{ID: "a1", Type: models.ActivityQuote, Symbol: "IBM", At: time.Now().UTC()}
}

func TestRecorderBackends(t *testing.T) {
	m := newFakeMetrics()
	pub := &memPublisher{}
	store := &memStorage{}

	none := NewActivityRecorder(pub, store, m, domrepo.BackendNone)
	require.NoError(t, none.Process(context.Background(), sampleActivity()))
	assert.Empty(t, pub.sent)
	assert.Empty(t, store.stored)

	kafka := NewActivityRecorder(pub, store, m, domrepo.BackendKafka)
	require.NoError(t, kafka.Process(context.Background(), sampleActivity()))
	assert.Len(t, pub.sent, 1)
	assert.Equal(t, 1, m.activity["kafka:quote"])

	ch := NewActivityRecorder(pub, store, m, domrepo.BackendClickHouse)
	require.NoError(t, ch.ProcessBatch(context.Background(), []*models.Activity{sampleActivity(), sampleActivity()}))
	assert.Len(t, store.stored, 2)
	assert.Equal(t, 2, m.activity["clickhouse:quote"])
}

func TestRecorderErrors(t *testing.T) {
	m := newFakeMetrics()
	pub := &memPublisher{err: errors.New("broker down")}
	r := NewActivityRecorder(pub, nil, m, domrepo.BackendKafka)
	assert.Error(t, r.Process(context.Background(), sampleActivity()))
	assert.Equal(t, 1, m.errors["activity_record"])

	assert.Error(t, r.Process(context.Background(), nil))

	noStore := NewActivityRecorder(nil, nil, m, domrepo.BackendClickHouse)
	assert.Error(t, noStore.Process(context.Background(), sampleActivity()))
}

func TestActivityHandler(t *testing.T) {
	m := newFakeMetrics()
	store := &memStorage{}
	h := NewActivityHandler("marketboard.activity", store, m)
	assert.Equal(t, "marketboard.activity", h.Topic())

	b, err := json.Marshal(sampleActivity())
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), b))
	require.Len(t, store.stored, 1)
	assert.Equal(t, "IBM", store.stored[0].Symbol)

	assert.Error(t, h.Handle(context.Background(), []byte("{not json")))
	assert.Equal(t, 1, m.errors["consumer_unmarshal"])

	err = h.Handle(context.Background(), []byte(`{"type":"quote"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	store.err = errors.New("insert failed")
	assert.Error(t, h.Handle(context.Background(), b))
	assert.Equal(t, 1, m.errors["consumer_store"])
}
