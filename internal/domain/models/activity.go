package models

import "time"

// Activity event types.
const (
	ActivityQuote    = "quote"
	ActivityOverview = "overview"
	ActivitySeries   = "series"
	ActivitySearch   = "search"
)

// Activity is a single API view event used for usage analytics.
type Activity struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Symbol string    `json:"symbol"`
	At     time.Time `json:"at"`
}
