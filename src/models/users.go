package models

import "time"

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

type UserProfile struct {
	ID                     int       `db:"id"`
	UserID                 string    `db:"user_id"`
	CashBalance            float64   `db:"cash_balance"`
	TotalDividendsReceived float64   `db:"total_dividends_received"`
	LastUpdated            time.Time `db:"last_updated"`
}
