package models

import "time"

// DividendEvent is one declared dividend for a symbol. Ex-date and pay-date
// may both be unknown depending on which provider reported the event; the
// upsert key is (symbol, ex_date, amount).
type DividendEvent struct {
	ID         int        `db:"id"`
	Symbol     string     `db:"symbol"`
	ExDate     *time.Time `db:"ex_date"`
	PayDate    *time.Time `db:"pay_date"`
	RecordDate *time.Time `db:"record_date"`
	Amount     float64    `db:"amount"`
	Source     string     `db:"source"`
	CreatedAt  time.Time  `db:"created_at"`
}
