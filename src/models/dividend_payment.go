package models

import "time"

// DividendPayment records a dividend credited to a portfolio's cash balance.
// The unique key (user_id, symbol, ex_date) makes processing idempotent.
type DividendPayment struct {
	ID             int        `db:"id"`
	UserID         string     `db:"user_id"`
	PortfolioID    int        `db:"portfolio_id"`
	Symbol         string     `db:"symbol"`
	ExDate         time.Time  `db:"ex_date"`
	PayDate        *time.Time `db:"pay_date"`
	AmountPerShare float64    `db:"amount_per_share"`
	SharesOwned    float64    `db:"shares_owned"`
	TotalAmount    float64    `db:"total_amount"`
	Reinvested     bool       `db:"reinvested"`
	ProcessedAt    time.Time  `db:"processed_at"`
}
