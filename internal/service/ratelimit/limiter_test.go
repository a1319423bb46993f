package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	l := New()
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4", 3, 1), "request %d", i)
	}
	assert.False(t, l.Allow("1.2.3.4", 3, 1))
	assert.True(t, l.Allow("5.6.7.8", 3, 1), "keys are independent")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4", 3, 1))
	assert.False(t, l.Allow("1.2.3.4", 3, 1))

	now = now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4", 3, 1))
	}
	assert.False(t, l.Allow("1.2.3.4", 3, 1), "refill is capped at capacity")
}

func TestLimiterZeroCapacityDisables(t *testing.T) {
	l := New()
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("k", 0, 0))
	}
	assert.Equal(t, 0, l.Len())
}

func TestLimiterPrunesIdleKeys(t *testing.T) {
	l := New()
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("old", 5, 1)
	now = now.Add(time.Hour)
	for i := 0; i < 1100; i++ {
		l.Allow("new", 5000, 1)
	}
	assert.Equal(t, 1, l.Len())
}
