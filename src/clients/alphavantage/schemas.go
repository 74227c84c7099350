package alphavantage

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

type symbolSearchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
}

// SearchMatch is one normalized SYMBOL_SEARCH result.
type SearchMatch struct {
	Symbol string
	Name   string
	Region string
}

type monthlyAdjustedResponse struct {
	Series map[string]map[string]string `json:"Monthly Adjusted Time Series"`
}

// MonthlyDividend is one month-end dividend distribution from the adjusted
// monthly series.
type MonthlyDividend struct {
	Date   string // YYYY-MM-DD month end
	Amount float64
}
