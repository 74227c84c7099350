package schemas

type CreateHoldingRequest struct {
	PortfolioID       int      `json:"portfolio_id"`
	Symbol            string   `json:"symbol"`
	Shares            float64  `json:"shares"`
	AvgPrice          *float64 `json:"avg_price"`
	ReinvestDividends *bool    `json:"reinvest_dividends"`
}

type HoldingResponse struct {
	ID                int     `json:"id"`
	PortfolioID       int     `json:"portfolio_id"`
	Symbol            string  `json:"symbol"`
	Shares            float64 `json:"shares"`
	AvgPrice          float64 `json:"avg_price"`
	ReinvestDividends bool    `json:"reinvest_dividends"`
}

type CreateHoldingResponse struct {
	Holding        HoldingResponse `json:"holding"`
	QuoteUsed      float64         `json:"quote_used"`
	CashDeducted   float64         `json:"cash_deducted"`
	NewCashBalance float64         `json:"new_cash_balance"`
	Action         string          `json:"action"` // "created", "updated" or "merged"
}

type SellHoldingRequest struct {
	Shares *float64 `json:"shares"`
}

type SellHoldingResponse struct {
	Message        string  `json:"message"`
	SharesSold     float64 `json:"shares_sold"`
	PricePerShare  float64 `json:"price_per_share"`
	Proceeds       float64 `json:"proceeds"`
	NewCashBalance float64 `json:"new_cash_balance"`
}

// HoldingQuoteRow is the /holdings/with-quotes row shape.
type HoldingQuoteRow struct {
	ID                int      `json:"id"`
	PortfolioID       int      `json:"portfolio_id"`
	Symbol            string   `json:"symbol"`
	Shares            float64  `json:"shares"`
	AvgPrice          float64  `json:"avg_price"`
	ReinvestDividends bool     `json:"reinvest_dividends"`
	LatestPrice       *float64 `json:"latest_price"`
	MarketValue       float64  `json:"market_value"`
}
