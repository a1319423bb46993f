package models

type Watchlist struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// WatchlistView is a watchlist with its symbols resolved against the catalog.
type WatchlistView struct {
	Watchlist
	Stocks []Stock `json:"stocks"`
}
