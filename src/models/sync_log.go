package models

import "time"

type SyncLog struct {
	ID               int       `db:"id"`
	RunID            string    `db:"run_id"`
	PortfolioID      *int      `db:"portfolio_id"`
	SymbolsProcessed int       `db:"symbols_processed"`
	EventsInserted   int       `db:"events_inserted"`
	SyncDate         time.Time `db:"sync_date"`
	CreatedAt        time.Time `db:"created_at"`
}
