package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/usecase"
	xhttp "MarketBoard/pkg/http"
	xlogger "MarketBoard/pkg/logger"
	"MarketBoard/pkg/util"
)

// Tracker records API view events. Implementations must not block.
type Tracker interface {
	Track(kind, symbol string) bool
}

// FlagSource exposes evaluated feature flags.
type FlagSource interface {
	Snapshot() models.FlagSnapshot
	Subscribe(fn func(models.FlagSnapshot)) func()
}

// MarketDeps groups the usecases served over HTTP.
type MarketDeps struct {
	Market     *usecase.MarketDataUseCase
	Dashboard  *usecase.DashboardLoader
	Series     *usecase.SeriesUseCase
	Search     *usecase.SearchUseCase
	News       *usecase.NewsUseCase
	Watchlists *usecase.WatchlistUseCase
	Portfolio  *usecase.PortfolioUseCase
	Summary    *usecase.MarketSummaryUseCase
	Analytics  *usecase.AnalyticsUseCase
	Flags      FlagSource
	Tracker    Tracker // optional
}

// MarketEchoHandler serves the market data API.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	d      MarketDeps
	ws     *FlagsWSHandler
}

func NewMarketEchoHandler(logger *xlogger.Logger, deps MarketDeps, ws *FlagsWSHandler) *MarketEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &MarketEchoHandler{logger: logger, d: deps, ws: ws}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stocks", h.Stocks)
	g.GET("/stocks/:symbol", h.Quote)
	g.GET("/stocks/:symbol/overview", h.Overview)
	g.GET("/stocks/:symbol/series", h.Series)
	g.GET("/search", h.Search)
	g.GET("/news", h.News)
	g.GET("/market/summary", h.MarketSummary)
	g.GET("/market/sectors", h.Sectors)

	g.GET("/watchlists", h.ListWatchlists)
	g.POST("/watchlists", h.CreateWatchlist)
	g.GET("/watchlists/:id", h.GetWatchlist)
	g.GET("/watchlists/:id/available", h.AvailableSymbols)
	g.POST("/watchlists/:id/symbols", h.AddSymbol)
	g.DELETE("/watchlists/:id/symbols/:symbol", h.RemoveSymbol)

	g.GET("/portfolio", h.Portfolio)
	g.POST("/portfolio", h.AddPosition)
	g.DELETE("/portfolio/:symbol", h.RemovePosition)

	g.GET("/analytics", h.Analytics)
	g.GET("/analytics/popular", h.Popular)
	g.GET("/flags", h.Flags)

	if h.ws != nil {
		e.GET("/ws/flags", h.ws.Serve)
	}
}

func (h *MarketEchoHandler) Stocks(c echo.Context) error {
	stocks, err := h.d.Dashboard.Load(c.Request().Context())
	if err != nil {
		return h.fail(c, "dashboard load", err)
	}
	return xhttp.ListResponse(c, stocks, int64(len(stocks)))
}

func (h *MarketEchoHandler) Quote(c echo.Context) error {
	req := &SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, ok := h.d.Market.Quote(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %s not found", util.NormalizeSymbol(req.Symbol)))
	}
	h.track(models.ActivityQuote, s.Symbol)
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, s)
}

func (h *MarketEchoHandler) Overview(c echo.Context) error {
	req := &SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	o, ok := h.d.Market.Overview(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %s not found", util.NormalizeSymbol(req.Symbol)))
	}
	h.track(models.ActivityOverview, o.Symbol)
	return xhttp.SuccessResponse(c, o)
}

func (h *MarketEchoHandler) Series(c echo.Context) error {
	req := &SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p := usecase.GetSeriesParams{Symbol: req.Symbol, Limit: req.Limit}
	if req.From != "" {
		p.From, _ = util.ParseDate(req.From)
	}
	if req.To != "" {
		p.To, _ = util.ParseDate(req.To)
	}

	res, err := h.d.Series.GetSeries(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "series", err)
	}
	if res.Count > 0 {
		h.track(models.ActivitySeries, res.Symbol)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) Search(c echo.Context) error {
	req := &SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.d.Search.Search(req.Query)
	if q := util.NormalizeSymbol(req.Query); q != "" {
		h.track(models.ActivitySearch, q)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *MarketEchoHandler) News(c echo.Context) error {
	items := h.d.News.Latest()
	return xhttp.ListResponse(c, items, int64(len(items)))
}

func (h *MarketEchoHandler) MarketSummary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.d.Summary.Summary())
}

func (h *MarketEchoHandler) Sectors(c echo.Context) error {
	sectors := h.d.Summary.Sectors()
	return xhttp.ListResponse(c, sectors, int64(len(sectors)))
}

func (h *MarketEchoHandler) ListWatchlists(c echo.Context) error {
	lists := h.d.Watchlists.List()
	return xhttp.ListResponse(c, lists, int64(len(lists)))
}

func (h *MarketEchoHandler) CreateWatchlist(c echo.Context) error {
	req := &CreateWatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	wl, err := h.d.Watchlists.Create(req.Name)
	if err != nil {
		return h.fail(c, "create watchlist", err)
	}
	return xhttp.CreatedResponse(c, wl)
}

func (h *MarketEchoHandler) GetWatchlist(c echo.Context) error {
	req := &WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	view, err := h.d.Watchlists.Get(req.ID)
	if err != nil {
		return h.fail(c, "get watchlist", err)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *MarketEchoHandler) AvailableSymbols(c echo.Context) error {
	req := &AvailableRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	stocks, err := h.d.Watchlists.Available(req.ID, req.Query)
	if err != nil {
		return h.fail(c, "available symbols", err)
	}
	return xhttp.ListResponse(c, stocks, int64(len(stocks)))
}

func (h *MarketEchoHandler) AddSymbol(c echo.Context) error {
	req := &AddSymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	view, err := h.d.Watchlists.Add(req.ID, req.Symbol)
	if err != nil {
		return h.fail(c, "add symbol", err)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *MarketEchoHandler) RemoveSymbol(c echo.Context) error {
	req := &RemoveSymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	view, err := h.d.Watchlists.Remove(req.ID, req.Symbol)
	if err != nil {
		return h.fail(c, "remove symbol", err)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *MarketEchoHandler) Portfolio(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.d.Portfolio.Summary())
}

func (h *MarketEchoHandler) AddPosition(c echo.Context) error {
	req := &AddPositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sum, err := h.d.Portfolio.AddPosition(req.Symbol, req.Shares, req.Price)
	if err != nil {
		return h.fail(c, "add position", err)
	}
	return xhttp.CreatedResponse(c, sum)
}

func (h *MarketEchoHandler) RemovePosition(c echo.Context) error {
	req := &SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sum, err := h.d.Portfolio.RemovePosition(req.Symbol)
	if err != nil {
		return h.fail(c, "remove position", err)
	}
	return xhttp.SuccessResponse(c, sum)
}

func (h *MarketEchoHandler) Analytics(c echo.Context) error {
	res, err := h.d.Analytics.Analyze(c.Request().Context())
	if err != nil {
		return h.fail(c, "analytics", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) Popular(c echo.Context) error {
	req := &PopularRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.d.Analytics.Popular(c.Request().Context(), req.Limit)
	if err != nil {
		return h.fail(c, "popular symbols", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *MarketEchoHandler) Flags(c echo.Context) error {
	if h.d.Flags == nil {
		return xhttp.SuccessResponse(c, models.FlagSnapshot{Features: map[string]bool{}})
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, h.d.Flags.Snapshot())
}

// fail logs server-side failures and writes the mapped error envelope.
func (h *MarketEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", xlogger.String("route", c.Path()), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *MarketEchoHandler) track(kind, symbol string) {
	if h.d.Tracker != nil {
		h.d.Tracker.Track(kind, symbol)
	}
}
