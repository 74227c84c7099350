package models

import "time"

type Holding struct {
	ID                int       `db:"id"`
	PortfolioID       int       `db:"portfolio_id"`
	Symbol            string    `db:"symbol"`
	Shares            float64   `db:"shares"`
	AvgPrice          float64   `db:"avg_price"`
	ReinvestDividends bool      `db:"reinvest_dividends"`
	PurchaseDate      time.Time `db:"purchase_date"`
}
