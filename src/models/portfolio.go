package models

import "time"

type PortfolioType string

const (
	PortfolioTypeIndividual PortfolioType = "individual"
	PortfolioTypeRetirement PortfolioType = "retirement"
)

// ValidPortfolioType reports whether t is one of the two supported types.
func ValidPortfolioType(t PortfolioType) bool {
	return t == PortfolioTypeIndividual || t == PortfolioTypeRetirement
}

type Portfolio struct {
	ID            int           `db:"id"`
	UserID        string        `db:"user_id"`
	Name          string        `db:"name"`
	PortfolioType PortfolioType `db:"portfolio_type"`
	CashBalance   float64       `db:"cash_balance"`
	CreatedAt     time.Time     `db:"created_at"`
}
