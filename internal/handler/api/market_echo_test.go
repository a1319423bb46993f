package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/repository"
	"MarketBoard/internal/services/timeseries"
	"MarketBoard/internal/usecase"
	xhttp "MarketBoard/pkg/http"
)

type fakeFlags struct {
	mu   sync.Mutex
	on   map[string]bool
	subs []func(models.FlagSnapshot)
}

func newFakeFlags(on ...string) *fakeFlags {
	f := &fakeFlags{on: map[string]bool{}}
	for _, name := range on {
		f.on[name] = true
	}
	return f
}

func (f *fakeFlags) IsOn(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on[name]
}

func (f *fakeFlags) Ready() bool { return true }

func (f *fakeFlags) Snapshot() models.FlagSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	feats := map[string]bool{}
	for _, name := range models.KnownFlags {
		feats[name] = f.on[name]
	}
	return models.FlagSnapshot{Ready: true, Features: feats}
}

func (f *fakeFlags) Subscribe(fn func(models.FlagSnapshot)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeFlags) set(name string, on bool) {
	f.mu.Lock()
	f.on[name] = on
	subs := append([]func(models.FlagSnapshot){}, f.subs...)
	f.mu.Unlock()
	snap := f.Snapshot()
	for _, fn := range subs {
		fn(snap)
	}
}

type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTracker) Track(kind, symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+symbol)
	return true
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listData struct {
	Rows  json.RawMessage `json:"rows"`
	Total int64           `json:"total"`
}

type testAPI struct {
	echo    *echo.Echo
	flags   *fakeFlags
	tracker *recordingTracker
}

func newTestAPI(t *testing.T, flagsOn ...string) *testAPI {
	t.Helper()
	catalog := repository.NewStaticCatalog()
	clock := func() time.Time { return time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC) }
	gen := timeseries.NewGenerator(timeseries.WithSeed(7), timeseries.WithClock(clock))
	market := usecase.NewMarketDataUseCase(catalog, gen)
	flags := newFakeFlags(flagsOn...)
	tracker := &recordingTracker{}

	deps := MarketDeps{
		Market:     market,
		Dashboard:  usecase.NewDashboardLoader(market),
		Series:     usecase.NewSeriesUseCase(market),
		Search:     usecase.NewSearchUseCase(catalog),
		News:       usecase.NewNewsUseCase(),
		Watchlists: usecase.NewWatchlistUseCase(catalog, flags),
		Portfolio:  usecase.NewPortfolioUseCase(catalog),
		Summary:    usecase.NewMarketSummaryUseCase(market),
		Analytics:  usecase.NewAnalyticsUseCase(catalog, market, flags, nil),
		Flags:      flags,
		Tracker:    tracker,
	}
	h := NewMarketEchoHandler(nil, deps, NewFlagsWSHandler(nil, flags, nil))
	srv := xhttp.NewServer(h, xhttp.WithRegistry(prometheus.NewRegistry()))
	return &testAPI{echo: srv.Echo(), flags: flags, tracker: tracker}
}

func (a *testAPI) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestStocks(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Status)

	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(5), list.Total)
}

func TestQuote(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/ibm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var s models.Stock
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, "IBM", s.Symbol)
	assert.Equal(t, []string{"quote:IBM"}, api.tracker.events)
}

func TestQuoteNotFound(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/AAPL", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.Status)

	var errs []xhttp.AppError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_NOT_FOUND", errs[0].Code)
	assert.Empty(t, api.tracker.events)
}

func TestQuoteInvalidSymbol(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/bad$sym", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errs []xhttp.ValidationError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.NotEmpty(t, errs)
	assert.Equal(t, "ERR_SYMBOL", errs[0].Code)
	assert.Equal(t, "symbol", errs[0].Field)
}

func TestOverview(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/TSCO.LON/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var o map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "TSCO.LON", o["symbol"])
	assert.Contains(t, o, "52WeekHigh")
}

func TestSeries(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/IBM/series?from=2026-01-01&to=2026-01-09&limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res usecase.GetSeriesResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, 3, res.Count)
	assert.Equal(t, "2026-01-09", res.Points[2].Time)
	assert.Equal(t, []string{"series:IBM"}, api.tracker.events)
}

func TestSeriesUnknownSymbolIsEmpty(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/stocks/AAPL/series", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res usecase.GetSeriesResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Zero(t, res.Count)
	assert.Empty(t, api.tracker.events)
}

func TestSeriesValidation(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(t, http.MethodGet, "/api/stocks/IBM/series?from=01-02-2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/stocks/IBM/series?limit=9000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/stocks/IBM/series?from=2026-01-09&to=2026-01-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/search?q=group", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, []string{"search:GROUP"}, api.tracker.events)

	rec, _ = api.do(t, http.MethodGet, "/api/search?q=%20%20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"search:GROUP"}, api.tracker.events, "blank query is not tracked")
}

func TestNewsAndMarket(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/news", "/api/market/summary", "/api/market/sectors", "/api/portfolio", "/api/flags"} {
		rec, env := api.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, env.Data, path)
	}
}

func TestWatchlistFlow(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/watchlists/default/symbols", `{"symbol":"gpv.trv"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := api.do(t, http.MethodGet, "/api/watchlists/default", "")
	var view models.WatchlistView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Contains(t, view.Symbols, "GPV.TRV")
	assert.Len(t, view.Stocks, len(view.Symbols))

	rec, _ = api.do(t, http.MethodDelete, "/api/watchlists/default/symbols/GPV.TRV", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = api.do(t, http.MethodGet, "/api/watchlists/default/available", "")
	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(2), list.Total)

	rec, _ = api.do(t, http.MethodGet, "/api/watchlists/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateWatchlistGated(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodPost, "/api/watchlists", `{"name":"Tech"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	var errs []xhttp.AppError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	assert.Equal(t, "ERR_FEATURE_DISABLED", errs[0].Code)

	api.flags.set(models.FlagMultipleWatchlists, true)
	rec, _ = api.do(t, http.MethodPost, "/api/watchlists", `{"name":"Tech"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/watchlists", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortfolioFlow(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(t, http.MethodPost, "/api/portfolio", `{"symbol":"RELIANCE.BSE","shares":2,"price":1500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/portfolio", `{"symbol":"IBM","shares":-1,"price":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/portfolio", `{"symbol":"AAPL","shares":1,"price":10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(t, http.MethodDelete, "/api/portfolio/RELIANCE.BSE", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(t, http.MethodDelete, "/api/portfolio/RELIANCE.BSE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsGated(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(t, http.MethodGet, "/api/analytics", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	api = newTestAPI(t, models.FlagAdvancedFeatures)
	rec, env := api.do(t, http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.MarketAnalytics
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Len(t, res.Symbols, 5)
}

func TestPopularWithoutStore(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/analytics/popular?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Zero(t, list.Total)

	rec, _ = api.do(t, http.MethodGet, "/api/analytics/popular?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(t, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
