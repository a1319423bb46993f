package models

// Stock is one catalog entry. Change and ChangePercent are authored alongside
// Price and PreviousClose and are not derived from them.
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	MarketCap     float64 `json:"marketCap"`
	Sector        string  `json:"sector"`
}

// TimeSeriesPoint is one daily OHLC+volume observation. Price is the close.
type TimeSeriesPoint struct {
	Time   string  `json:"time"` // YYYY-MM-DD
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
}

// Overview is a read-only projection of a Stock with analyst-style fields
// computed at query time.
type Overview struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	MarketCap     float64 `json:"marketCap"`
	PE            float64 `json:"pe"`
	PEG           float64 `json:"peg"`
	DividendYield float64 `json:"dividendYield"`
	EPS           float64 `json:"eps"`
	Beta          float64 `json:"beta"`
	High52Week    float64 `json:"52WeekHigh"`
	Low52Week     float64 `json:"52WeekLow"`
	PriceToBook   float64 `json:"priceToBook"`
	ProfitMargin  float64 `json:"profitMargin"`
	RevenueTTM    float64 `json:"revenueTTM"`
	Employees     string  `json:"employees"`
	Exchange      string  `json:"exchange"`
}
