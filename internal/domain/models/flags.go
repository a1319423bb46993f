package models

// Known feature flag names.
const (
	FlagPlanGraph          = "plan-graph"
	FlagAdvancedCharts     = "advanced-charts"
	FlagNewsFeed           = "news-feed"
	FlagMarketOverview     = "market-overview"
	FlagStocksTable        = "stocks-table"
	FlagPortfolioAnalytics = "portfolio-analytics"
	FlagAdvancedFeatures   = "advanced-features"
	FlagMultipleWatchlists = "multiple-watchlists"
)

// KnownFlags lists every flag the UI consults.
var KnownFlags = []string{
	FlagPlanGraph,
	FlagAdvancedCharts,
	FlagNewsFeed,
	FlagMarketOverview,
	FlagStocksTable,
	FlagPortfolioAnalytics,
	FlagAdvancedFeatures,
	FlagMultipleWatchlists,
}

// FlagDefaults are reported by IsOn until the first load completes.
var FlagDefaults = map[string]bool{
	FlagStocksTable: true,
}

// FlagSnapshot is the evaluated flag set.
type FlagSnapshot struct {
	Ready    bool            `json:"ready"`
	Features map[string]bool `json:"features"`
}
