package polygon

// DividendResult is one row of the /v3/reference/dividends response.
type DividendResult struct {
	Ticker         string  `json:"ticker"`
	ExDividendDate string  `json:"ex_dividend_date"`
	PayDate        string  `json:"pay_date"`
	RecordDate     string  `json:"record_date"`
	CashAmount     float64 `json:"cash_amount"`
	Frequency      int     `json:"frequency"`
}

type dividendsResponse struct {
	Results []DividendResult `json:"results"`
	Status  string           `json:"status"`
}

type prevCloseBar struct {
	Close  float64 `json:"c"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Volume float64 `json:"v"`
}

type prevCloseResponse struct {
	Ticker  string         `json:"ticker"`
	Results []prevCloseBar `json:"results"`
	Status  string         `json:"status"`
}

// TickerResult is one row of the /v3/reference/tickers search response.
type TickerResult struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	PrimaryExchange string `json:"primary_exchange"`
	Locale          string `json:"locale"`
	Market          string `json:"market"`
	Active          bool   `json:"active"`
}

type tickersResponse struct {
	Results []TickerResult `json:"results"`
	Status  string         `json:"status"`
}

// FinancialsResult carries the quarterly fundamentals used by the earnings
// risk analysis.
type FinancialsResult struct {
	Ticker                    string  `json:"ticker"`
	Period                    string  `json:"period"`
	CalendarDate              string  `json:"calendarDate"`
	EarningsPerShare          float64 `json:"earnings_per_share"`
	EarningsPerShareEstimate  float64 `json:"earnings_per_share_estimate"`
	Revenue                   float64 `json:"revenue"`
	NetIncome                 float64 `json:"net_income"`
}

type financialsResponse struct {
	Results []FinancialsResult `json:"results"`
	Status  string             `json:"status"`
}
