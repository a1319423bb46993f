package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	domsvc "MarketBoard/internal/domain/service"
)

const (
	DefaultWatchlistID   = "default"
	defaultWatchlistName = "My Watchlist"
)

var defaultWatchlistSymbols = []string{"IBM", "TSCO.LON", "MBG.DEX"}

// WatchlistUseCase keeps watchlists in process memory. Edits are lost on restart.
type WatchlistUseCase struct {
	catalog domrepo.Catalog
	flags   domsvc.FlagEvaluator

	mu    sync.RWMutex
	lists map[string]*models.Watchlist
	order []string
	newID func() string
}

func NewWatchlistUseCase(catalog domrepo.Catalog, flags domsvc.FlagEvaluator) *WatchlistUseCase {
	uc := &WatchlistUseCase{
		catalog: catalog,
		flags:   flags,
		lists:   map[string]*models.Watchlist{},
		newID:   func() string { return uuid.NewString() },
	}
	def := &models.Watchlist{ID: DefaultWatchlistID, Name: defaultWatchlistName}
	def.Symbols = append(def.Symbols, defaultWatchlistSymbols...)
	uc.lists[def.ID] = def
	uc.order = append(uc.order, def.ID)
	return uc
}

// List returns all watchlists in creation order.
func (uc *WatchlistUseCase) List() []models.Watchlist {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]models.Watchlist, 0, len(uc.order))
	for _, id := range uc.order {
		out = append(out, cloneWatchlist(uc.lists[id]))
	}
	return out
}

func (uc *WatchlistUseCase) Get(id string) (models.WatchlistView, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	wl, ok := uc.lists[id]
	if !ok {
		return models.WatchlistView{}, fmt.Errorf("watchlist %q: %w", id, ErrNotFound)
	}
	return uc.view(wl), nil
}

// Create adds an empty watchlist. Only allowed when multiple watchlists are enabled.
func (uc *WatchlistUseCase) Create(name string) (models.Watchlist, error) {
	if uc.flags == nil || !uc.flags.IsOn(models.FlagMultipleWatchlists) {
		return models.Watchlist{}, fmt.Errorf("create watchlist: %w", ErrFeatureDisabled)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Watchlist{}, fmt.Errorf("watchlist name required: %w", ErrInvalidInput)
	}
	wl := &models.Watchlist{ID: uc.newID(), Name: name, Symbols: []string{}}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.lists[wl.ID] = wl
	uc.order = append(uc.order, wl.ID)
	return cloneWatchlist(wl), nil
}

// Add appends a catalog symbol to the watchlist. Adding a present symbol is a no-op.
func (uc *WatchlistUseCase) Add(id, symbol string) (models.WatchlistView, error) {
	s, ok := uc.catalog.Lookup(symbol)
	if !ok {
		return models.WatchlistView{}, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	wl, ok := uc.lists[id]
	if !ok {
		return models.WatchlistView{}, fmt.Errorf("watchlist %q: %w", id, ErrNotFound)
	}
	if !containsSymbol(wl.Symbols, s.Symbol) {
		wl.Symbols = append(wl.Symbols, s.Symbol)
	}
	return uc.view(wl), nil
}

// Remove drops symbol from the watchlist if present.
func (uc *WatchlistUseCase) Remove(id, symbol string) (models.WatchlistView, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	wl, ok := uc.lists[id]
	if !ok {
		return models.WatchlistView{}, fmt.Errorf("watchlist %q: %w", id, ErrNotFound)
	}
	kept := wl.Symbols[:0]
	for _, sym := range wl.Symbols {
		if !strings.EqualFold(sym, symbol) {
			kept = append(kept, sym)
		}
	}
	wl.Symbols = kept
	return uc.view(wl), nil
}

// Stocks resolves the watchlist's symbols against the catalog, in watchlist order.
func (uc *WatchlistUseCase) Stocks(id string) ([]models.Stock, error) {
	v, err := uc.Get(id)
	if err != nil {
		return nil, err
	}
	return v.Stocks, nil
}

// Available lists catalog stocks not in the watchlist whose symbol contains query.
func (uc *WatchlistUseCase) Available(id, query string) ([]models.Stock, error) {
	uc.mu.RLock()
	wl, ok := uc.lists[id]
	var current []string
	if ok {
		current = append(current, wl.Symbols...)
	}
	uc.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("watchlist %q: %w", id, ErrNotFound)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Stock{}
	for _, s := range uc.catalog.All() {
		if containsSymbol(current, s.Symbol) {
			continue
		}
		if strings.Contains(strings.ToLower(s.Symbol), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

// view must be called with uc.mu held.
func (uc *WatchlistUseCase) view(wl *models.Watchlist) models.WatchlistView {
	v := models.WatchlistView{Watchlist: cloneWatchlist(wl), Stocks: make([]models.Stock, 0, len(wl.Symbols))}
	for _, sym := range wl.Symbols {
		if s, ok := uc.catalog.Lookup(sym); ok {
			v.Stocks = append(v.Stocks, s)
		}
	}
	return v
}

func cloneWatchlist(wl *models.Watchlist) models.Watchlist {
	out := *wl
	out.Symbols = append([]string{}, wl.Symbols...)
	return out
}

func containsSymbol(list []string, symbol string) bool {
	for _, s := range list {
		if strings.EqualFold(s, symbol) {
			return true
		}
	}
	return false
}
