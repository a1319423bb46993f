package api

// SymbolRequest addresses a single catalog symbol.
type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required,symbol"`
}

// SeriesRequest selects a window of a symbol's daily series.
type SeriesRequest struct {
	Symbol string `param:"symbol" validate:"required,symbol"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" default:"1000" validate:"gte=1,lte=5000"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"max=64"`
}

type PopularRequest struct {
	Limit int `query:"limit" default:"10" validate:"gte=1,lte=100"`
}

type WatchlistRequest struct {
	ID string `param:"id" validate:"required,max=64"`
}

type AvailableRequest struct {
	ID    string `param:"id" validate:"required,max=64"`
	Query string `query:"q" validate:"max=64"`
}

type CreateWatchlistRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type AddSymbolRequest struct {
	ID     string `param:"id" validate:"required,max=64"`
	Symbol string `json:"symbol" validate:"required,symbol"`
}

type RemoveSymbolRequest struct {
	ID     string `param:"id" validate:"required,max=64"`
	Symbol string `param:"symbol" validate:"required,symbol"`
}

// AddPositionRequest buys shares of symbol at price.
type AddPositionRequest struct {
	Symbol string  `json:"symbol" validate:"required,symbol"`
	Shares float64 `json:"shares" validate:"gt=0"`
	Price  float64 `json:"price" validate:"gt=0"`
}
