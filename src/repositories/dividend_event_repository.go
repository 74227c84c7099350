package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

// CalendarRow is one holdings × dividend_events pairing for a user's
// portfolios, produced by the calendar read.
type CalendarRow struct {
	PortfolioID  int
	Symbol       string
	Shares       float64
	PurchaseDate time.Time
	ExDate       *time.Time
	PayDate      *time.Time
	Amount       float64
}

type DividendEventRepository interface {
	ListBySymbol(ctx context.Context, symbol string) ([]models.DividendEvent, error)
	ListRecentBySymbol(ctx context.Context, symbol string, limit int) ([]models.DividendEvent, error)
	ListBySymbolSince(ctx context.Context, symbol string, since, until time.Time) ([]models.DividendEvent, error)
	Upsert(ctx context.Context, e *models.DividendEvent) (bool, error)
	CalendarRows(ctx context.Context, userID string) ([]CalendarRow, error)
}

type dividendEventRepo struct {
	db *pgxpool.Pool
}

func NewDividendEventRepository(db *pgxpool.Pool) DividendEventRepository {
	return &dividendEventRepo{db: db}
}

const dividendEventColumns = `id, UPPER(symbol), ex_date, pay_date, record_date, amount, COALESCE(source, ''), created_at`

func scanDividendEvents(rows pgx.Rows) ([]models.DividendEvent, error) {
	defer rows.Close()

	var events []models.DividendEvent
	for rows.Next() {
		var e models.DividendEvent
		if err := rows.Scan(&e.ID, &e.Symbol, &e.ExDate, &e.PayDate, &e.RecordDate, &e.Amount, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *dividendEventRepo) ListBySymbol(ctx context.Context, symbol string) ([]models.DividendEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+dividendEventColumns+` FROM dividend_events
		WHERE UPPER(symbol) = UPPER($1)
		ORDER BY ex_date NULLS LAST`, symbol)
	if err != nil {
		return nil, err
	}
	return scanDividendEvents(rows)
}

func (r *dividendEventRepo) ListRecentBySymbol(ctx context.Context, symbol string, limit int) ([]models.DividendEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+dividendEventColumns+` FROM dividend_events
		WHERE UPPER(symbol) = UPPER($1)
		ORDER BY ex_date DESC NULLS LAST
		LIMIT $2`, symbol, limit)
	if err != nil {
		return nil, err
	}
	return scanDividendEvents(rows)
}

func (r *dividendEventRepo) ListBySymbolSince(ctx context.Context, symbol string, since, until time.Time) ([]models.DividendEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+dividendEventColumns+` FROM dividend_events
		WHERE UPPER(symbol) = UPPER($1) AND ex_date >= $2 AND ex_date <= $3
		ORDER BY ex_date`, symbol, since, until)
	if err != nil {
		return nil, err
	}
	return scanDividendEvents(rows)
}

// Upsert inserts a dividend event keyed on (symbol, ex_date, amount). Existing
// rows only get missing pay/record dates backfilled, which keeps repeated syncs
// idempotent. Returns true when a new row was inserted.
func (r *dividendEventRepo) Upsert(ctx context.Context, e *models.DividendEvent) (bool, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var inserted bool
	err := r.db.QueryRow(ctx,
		`INSERT INTO dividend_events (symbol, ex_date, pay_date, record_date, amount, source, created_at)
		VALUES (UPPER($1), $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, ex_date, amount) DO UPDATE SET
			pay_date = COALESCE(dividend_events.pay_date, EXCLUDED.pay_date),
			record_date = COALESCE(dividend_events.record_date, EXCLUDED.record_date)
		RETURNING id, (xmax = 0)`,
		e.Symbol, e.ExDate, e.PayDate, e.RecordDate, e.Amount, e.Source, e.CreatedAt).
		Scan(&e.ID, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *dividendEventRepo) CalendarRows(ctx context.Context, userID string) ([]CalendarRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.portfolio_id, UPPER(h.symbol), h.shares, h.purchase_date, d.ex_date, d.pay_date, d.amount
		FROM holdings h
		JOIN portfolios p ON p.id = h.portfolio_id
		JOIN dividend_events d ON UPPER(d.symbol) = UPPER(h.symbol)
		WHERE p.user_id = $1 AND h.shares > 0
		ORDER BY d.ex_date NULLS LAST`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalendarRow
	for rows.Next() {
		var c CalendarRow
		if err := rows.Scan(&c.PortfolioID, &c.Symbol, &c.Shares, &c.PurchaseDate, &c.ExDate, &c.PayDate, &c.Amount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
