package usecase

import (
	"strconv"
	"time"

	"MarketBoard/internal/domain/models"
)

const newsImagePlaceholder = "https://via.placeholder.com/400x200"

type headline struct {
	title   string
	summary string
	source  string
}

var headlines = []headline{
	{"Tech Stocks Rally on Strong Earnings Reports", "Major technology companies report better-than-expected earnings, driving market optimism.", "Financial Times"},
	{"Federal Reserve Holds Interest Rates Steady", "The Fed maintains current interest rates, citing stable economic indicators.", "Bloomberg"},
	{"AI Sector Sees Record Investment", "Venture capital flows into AI companies reach all-time highs this quarter.", "TechCrunch"},
	{"Energy Stocks Surge on Oil Price Increase", "Rising oil prices boost energy sector stocks across the board.", "Reuters"},
}

// NewsUseCase serves the bundled headlines, stamped relative to now.
type NewsUseCase struct {
	now func() time.Time
}

func NewNewsUseCase() *NewsUseCase {
	return &NewsUseCase{now: time.Now}
}

// Latest returns the headlines newest first; item k was published k hours ago.
func (uc *NewsUseCase) Latest() []models.NewsItem {
	now := uc.now().UTC()
	out := make([]models.NewsItem, 0, len(headlines))
	for i, h := range headlines {
		out = append(out, models.NewsItem{
			ID:          strconv.Itoa(i + 1),
			Title:       h.title,
			Summary:     h.summary,
			Source:      h.source,
			PublishedAt: now.Add(-time.Duration(i+1) * time.Hour),
			URL:         "#",
			ImageURL:    newsImagePlaceholder,
		})
	}
	return out
}
