package usecase

import (
	"strings"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
)

type SearchUseCase struct {
	catalog domrepo.Catalog
}

func NewSearchUseCase(catalog domrepo.Catalog) *SearchUseCase {
	return &SearchUseCase{catalog: catalog}
}

// Search matches query against symbol, name or sector, case-insensitively,
// in catalog order. An empty query returns the whole catalog.
func (uc *SearchUseCase) Search(query string) []models.Stock {
	all := uc.catalog.All()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]models.Stock, 0, len(all))
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Symbol), q) ||
			strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Sector), q) {
			out = append(out, s)
		}
	}
	return out
}
