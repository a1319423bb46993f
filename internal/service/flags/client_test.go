package flags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/cache"
)

const featuresJSON = `{
  "features": {
    "plan-graph": {"defaultValue": true},
    "news-feed": {"defaultValue": "false"},
    "advanced-charts": {"defaultValue": 0, "rules": [{"force": 1}]},
    "market-overview": {"defaultValue": {}},
    "stocks-table": {"defaultValue": false},
    "advanced-features": {"defaultValue": false, "rules": [
      {"condition": {"id": "someone-else"}, "force": true},
      {"condition": {"loggedIn": true}, "force": true}
    ]},
    "multiple-watchlists": {"defaultValue": true, "rules": [{"force": false, "coverage": 0.5}]}
  }
}`

func newServer(t *testing.T, status *atomic.Int32, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/features/sdk-test" {
			http.NotFound(w, r)
			return
		}
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(featuresJSON))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIsOnBeforeReady(t *testing.T) {
	c := New("http://unused", "sdk-test")
	assert.False(t, c.Ready())
	assert.True(t, c.IsOn(models.FlagStocksTable), "declared default")
	assert.False(t, c.IsOn(models.FlagPlanGraph))
}

func TestLoadEvaluatesPayload(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newServer(t, &status, &hits)

	c := New(srv.URL+"/", "sdk-test", WithAttributes(map[string]interface{}{"id": "user-123", "loggedIn": true}))
	require.NoError(t, c.Load(context.Background()))

	assert.True(t, c.Ready())
	assert.True(t, c.IsOn(models.FlagPlanGraph))
	assert.False(t, c.IsOn(models.FlagNewsFeed), `"false" string is off`)
	assert.True(t, c.IsOn(models.FlagAdvancedCharts), "force rule wins")
	assert.False(t, c.IsOn(models.FlagMarketOverview), "empty object is off")
	assert.False(t, c.IsOn(models.FlagStocksTable), "payload overrides default")
	assert.True(t, c.IsOn(models.FlagAdvancedFeatures), "matching condition")
	assert.True(t, c.IsOn(models.FlagMultipleWatchlists), "partial coverage rule skipped")
	assert.False(t, c.IsOn(models.FlagPortfolioAnalytics), "unknown flag is off")

	snap := c.Snapshot()
	assert.True(t, snap.Ready)
	assert.Len(t, snap.Features, len(models.KnownFlags))
}

func TestLoadFailureStillReady(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusInternalServerError)
	srv := newServer(t, &status, &hits)

	c := New(srv.URL, "sdk-test")
	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, c.Ready())
	assert.True(t, c.IsOn(models.FlagStocksTable))
	assert.False(t, c.IsOn(models.FlagPlanGraph))
}

func TestLoadFallsBackToCache(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newServer(t, &status, &hits)

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	first := New(srv.URL, "sdk-test", WithCache(mc, time.Hour))
	require.NoError(t, first.Load(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	second := New(srv.URL, "sdk-test", WithCache(mc, time.Hour))
	require.Error(t, second.Load(context.Background()))
	assert.True(t, second.IsOn(models.FlagPlanGraph), "served from cached payload")
}

func TestMissingClientKey(t *testing.T) {
	c := New("http://unused", "")
	err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoClientKey)
	assert.True(t, c.Ready())
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newServer(t, &status, &hits)

	c := New(srv.URL, "sdk-test")
	var calls atomic.Int32
	var last models.FlagSnapshot
	unsub := c.Subscribe(func(s models.FlagSnapshot) {
		calls.Add(1)
		last = s
	})

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, last.Ready)
	assert.True(t, last.Features[models.FlagPlanGraph])

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, int32(1), calls.Load(), "unchanged payload does not notify")

	unsub()
	unsub()
	status.Store(http.StatusInternalServerError)
	_ = c.Load(context.Background())
	assert.Equal(t, int32(1), calls.Load())
}

func TestStartSchedulesRefresh(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newServer(t, &status, &hits)

	c := New(srv.URL, "sdk-test", WithSchedule("* * * * * *"))
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	assert.True(t, c.Ready())
	assert.Eventually(t, func() bool { return hits.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	c := New("http://unused", "", WithSchedule("not a cron"))
	assert.Error(t, c.Start(context.Background()))
}

func TestTruthy(t *testing.T) {
	for _, v := range []interface{}{true, 1.0, -2.5, "yes", "true", map[string]interface{}{"a": 1}, []interface{}{1}} {
		assert.True(t, truthy(v), "%#v", v)
	}
	for _, v := range []interface{}{nil, false, 0.0, "", "false", "0", map[string]interface{}{}, []interface{}{}} {
		assert.False(t, truthy(v), "%#v", v)
	}
}
