package schemas

import "time"

type PortfolioSummary struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	PortfolioType string  `json:"portfolio_type"`
	TotalValue    float64 `json:"total_value"`
	CashBalance   float64 `json:"cash_balance"`
	HoldingsCount int     `json:"holdings_count"`
}

type ProfileResponse struct {
	UserID                 string             `json:"user_id"`
	CashBalance            float64            `json:"cash_balance"`
	TotalDividendsReceived float64            `json:"total_dividends_received"`
	TotalPortfolioValue    float64            `json:"total_portfolio_value"`
	TotalPortfolioCash     float64            `json:"total_portfolio_cash"`
	UpcomingDividends      float64            `json:"upcoming_dividends"`
	TotalNetWorth          float64            `json:"total_net_worth"`
	Portfolios             []PortfolioSummary `json:"portfolios"`
	LastUpdated            time.Time          `json:"last_updated"`
}

type CashRequest struct {
	Amount      float64 `json:"amount"`
	PortfolioID int     `json:"portfolio_id"`
}

type CashResponse struct {
	Message       string  `json:"message"`
	NewBalance    float64 `json:"new_balance"`
	PortfolioID   int     `json:"portfolio_id"`
	PortfolioName string  `json:"portfolio_name"`
}

type InitUserResponse struct {
	ID          string `json:"id"`
	PortfolioID int    `json:"portfolio_id"`
	Email       string `json:"email"`
}

type ProcessDividendsResponse struct {
	Message        string  `json:"message"`
	Processed      int     `json:"processed"`
	TotalAdded     float64 `json:"total_added"`
	NewCashBalance float64 `json:"new_cash_balance"`
}

type DividendPaymentRow struct {
	Symbol         string     `json:"symbol"`
	ExDate         time.Time  `json:"ex_date"`
	PayDate        *time.Time `json:"pay_date"`
	AmountPerShare float64    `json:"amount_per_share"`
	SharesOwned    float64    `json:"shares_owned"`
	TotalAmount    float64    `json:"total_amount"`
	Reinvested     bool       `json:"reinvested"`
	ProcessedAt    time.Time  `json:"processed_at"`
}

type DividendHistoryResponse struct {
	Payments []DividendPaymentRow `json:"payments"`
}
