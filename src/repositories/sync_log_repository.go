package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

type SyncLogRepository interface {
	Create(ctx context.Context, l *models.SyncLog) error
	LastForPortfolio(ctx context.Context, portfolioID int) (*models.SyncLog, error)
}

type syncLogRepo struct {
	db *pgxpool.Pool
}

func NewSyncLogRepository(db *pgxpool.Pool) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Create(ctx context.Context, l *models.SyncLog) error {
	if l.SyncDate.IsZero() {
		l.SyncDate = time.Now().UTC()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO sync_logs (run_id, portfolio_id, symbols_processed, events_inserted, sync_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		l.RunID, l.PortfolioID, l.SymbolsProcessed, l.EventsInserted, l.SyncDate).
		Scan(&l.ID, &l.CreatedAt)
}

func (r *syncLogRepo) LastForPortfolio(ctx context.Context, portfolioID int) (*models.SyncLog, error) {
	var l models.SyncLog
	err := r.db.QueryRow(ctx,
		`SELECT id, run_id, portfolio_id, symbols_processed, events_inserted, sync_date, created_at
		FROM sync_logs
		WHERE portfolio_id = $1
		ORDER BY sync_date DESC
		LIMIT 1`, portfolioID).
		Scan(&l.ID, &l.RunID, &l.PortfolioID, &l.SymbolsProcessed, &l.EventsInserted, &l.SyncDate, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
