package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

type holding struct {
	symbol   string
	shares   decimal.Decimal
	avgPrice decimal.Decimal
}

// PortfolioUseCase keeps positions in process memory and values them
// against current catalog prices on every read.
type PortfolioUseCase struct {
	catalog domrepo.Catalog

	mu       sync.RWMutex
	holdings []*holding
}

func NewPortfolioUseCase(catalog domrepo.Catalog) *PortfolioUseCase {
	return &PortfolioUseCase{
		catalog: catalog,
		holdings: []*holding{
			{symbol: "IBM", shares: decimal.NewFromInt(10), avgPrice: decimal.RequireFromString("280.00")},
			{symbol: "MBG.DEX", shares: decimal.NewFromInt(5), avgPrice: decimal.RequireFromString("62.50")},
			{symbol: "TSCO.LON", shares: decimal.NewFromInt(15), avgPrice: decimal.RequireFromString("270.00")},
		},
	}
}

// Summary values every position and the portfolio totals.
func (uc *PortfolioUseCase) Summary() models.PortfolioSummary {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := models.PortfolioSummary{Positions: make([]models.Position, 0, len(uc.holdings))}
	totalValue := decimal.Zero
	totalGain := decimal.Zero
	for _, h := range uc.holdings {
		s, ok := uc.catalog.Lookup(h.symbol)
		if !ok {
			continue
		}
		current := decimal.NewFromFloat(s.Price)
		value := h.shares.Mul(current)
		cost := h.shares.Mul(h.avgPrice)
		gain := value.Sub(cost)
		pct := decimal.Zero
		if !cost.IsZero() {
			pct = gain.Div(cost).Mul(hundred)
		}
		out.Positions = append(out.Positions, models.Position{
			Symbol:          h.symbol,
			Shares:          h.shares.InexactFloat64(),
			AveragePrice:    h.avgPrice.Round(2).InexactFloat64(),
			CurrentPrice:    s.Price,
			TotalValue:      value.Round(2).InexactFloat64(),
			GainLoss:        gain.Round(2).InexactFloat64(),
			GainLossPercent: pct.Round(2).InexactFloat64(),
		})
		totalValue = totalValue.Add(value)
		totalGain = totalGain.Add(gain)
	}

	out.TotalValue = totalValue.Round(2).InexactFloat64()
	out.TotalGainLoss = totalGain.Round(2).InexactFloat64()
	if basis := totalValue.Sub(totalGain); !basis.IsZero() {
		out.TotalGainLossPercent = totalGain.Div(basis).Mul(hundred).Round(2).InexactFloat64()
	}
	return out
}

// AddPosition buys shares at price. Buying more of a held symbol re-averages its cost.
func (uc *PortfolioUseCase) AddPosition(symbol string, shares, price float64) (models.PortfolioSummary, error) {
	if shares <= 0 || price <= 0 {
		return models.PortfolioSummary{}, fmt.Errorf("shares and price must be positive: %w", ErrInvalidInput)
	}
	s, ok := uc.catalog.Lookup(symbol)
	if !ok {
		return models.PortfolioSummary{}, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}
	qty := decimal.NewFromFloat(shares)
	px := decimal.NewFromFloat(price)

	uc.mu.Lock()
	if h := uc.find(s.Symbol); h != nil {
		total := h.shares.Add(qty)
		h.avgPrice = h.shares.Mul(h.avgPrice).Add(qty.Mul(px)).Div(total)
		h.shares = total
	} else {
		uc.holdings = append(uc.holdings, &holding{symbol: s.Symbol, shares: qty, avgPrice: px})
	}
	uc.mu.Unlock()

	return uc.Summary(), nil
}

// RemovePosition sells the whole position in symbol.
func (uc *PortfolioUseCase) RemovePosition(symbol string) (models.PortfolioSummary, error) {
	uc.mu.Lock()
	idx := -1
	for i, h := range uc.holdings {
		if strings.EqualFold(h.symbol, symbol) {
			idx = i
			break
		}
	}
	if idx < 0 {
		uc.mu.Unlock()
		return models.PortfolioSummary{}, fmt.Errorf("position %q: %w", symbol, ErrNotFound)
	}
	uc.holdings = append(uc.holdings[:idx], uc.holdings[idx+1:]...)
	uc.mu.Unlock()

	return uc.Summary(), nil
}

// find must be called with uc.mu held.
func (uc *PortfolioUseCase) find(symbol string) *holding {
	for _, h := range uc.holdings {
		if strings.EqualFold(h.symbol, symbol) {
			return h
		}
	}
	return nil
}
