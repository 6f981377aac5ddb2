package market

import "time"

// CompanyProfile is a company's profile as reported by the provider
type CompanyProfile struct {
	Ticker           string  `json:"ticker"`
	Name             string  `json:"name"`
	Exchange         string  `json:"exchange,omitempty"`
	Country          string  `json:"country,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	Industry         string  `json:"finnhubIndustry,omitempty"`
	IPO              string  `json:"ipo,omitempty"`
	Logo             string  `json:"logo,omitempty"`
	WebURL           string  `json:"weburl,omitempty"`
	MarketCap        float64 `json:"marketCapitalization,omitempty"`
	ShareOutstanding float64 `json:"shareOutstanding,omitempty"`
}

// Quote is a real-time price quote.
// JSON keys follow the provider's single-letter names.
type Quote struct {
	CurrentPrice  float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Time returns the quote timestamp
func (q *Quote) Time() time.Time {
	if q.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(q.Timestamp, 0)
}

// StockTrade is what the trade page shows for a symbol
type StockTrade struct {
	StockSymbol string  `json:"stock_symbol"`
	StockName   string  `json:"stock_name"`
	Price       float64 `json:"price"`
	Quantity    uint32  `json:"quantity"`
}
