package schemas

import "time"

const (
	DividendStatusPaid     = "paid"
	DividendStatusUpcoming = "upcoming"
)

type CalendarEvent struct {
	PortfolioID int        `json:"portfolio_id"`
	Symbol      string     `json:"symbol"`
	ExDate      *time.Time `json:"ex_date"`
	PayDate     *time.Time `json:"pay_date"`
	Amount      float64    `json:"amount"`
	Shares      float64    `json:"shares"`
	Cash        float64    `json:"cash"`
	Status      string     `json:"status"`
}

type CalendarResponse struct {
	Events []CalendarEvent `json:"events"`
}

// SyncResult summarizes one dividend sync run. PerSymbol records inserted
// event counts; a failed symbol counts as 0 rather than aborting the run.
type SyncResult struct {
	PortfolioID *int           `json:"portfolio_id,omitempty"`
	Symbols     []string       `json:"symbols"`
	Inserted    int            `json:"inserted"`
	PerSymbol   map[string]int `json:"per_symbol"`
}
