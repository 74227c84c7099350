package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

type DividendPaymentRepository interface {
	Exists(ctx context.Context, userID, symbol string, exDate time.Time) (bool, error)
	Create(ctx context.Context, p *models.DividendPayment) error
	ListByUser(ctx context.Context, userID string) ([]models.DividendPayment, error)
}

type dividendPaymentRepo struct {
	db *pgxpool.Pool
}

func NewDividendPaymentRepository(db *pgxpool.Pool) DividendPaymentRepository {
	return &dividendPaymentRepo{db: db}
}

func (r *dividendPaymentRepo) Exists(ctx context.Context, userID, symbol string, exDate time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM dividend_payments
			WHERE user_id = $1 AND UPPER(symbol) = UPPER($2) AND ex_date = $3
		)`, userID, symbol, exDate).Scan(&exists)
	return exists, err
}

func (r *dividendPaymentRepo) Create(ctx context.Context, p *models.DividendPayment) error {
	if p.ProcessedAt.IsZero() {
		p.ProcessedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO dividend_payments
			(user_id, portfolio_id, symbol, ex_date, pay_date, amount_per_share, shares_owned, total_amount, reinvested, processed_at)
		VALUES ($1, $2, UPPER($3), $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, symbol, ex_date) DO UPDATE SET processed_at = dividend_payments.processed_at
		RETURNING id`,
		p.UserID, p.PortfolioID, p.Symbol, p.ExDate, p.PayDate, p.AmountPerShare,
		p.SharesOwned, p.TotalAmount, p.Reinvested, p.ProcessedAt).Scan(&p.ID)
}

func (r *dividendPaymentRepo) ListByUser(ctx context.Context, userID string) ([]models.DividendPayment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, portfolio_id, UPPER(symbol), ex_date, pay_date, amount_per_share, shares_owned, total_amount, reinvested, processed_at
		FROM dividend_payments
		WHERE user_id = $1
		ORDER BY ex_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.DividendPayment
	for rows.Next() {
		var p models.DividendPayment
		if err := rows.Scan(&p.ID, &p.UserID, &p.PortfolioID, &p.Symbol, &p.ExDate, &p.PayDate,
			&p.AmountPerShare, &p.SharesOwned, &p.TotalAmount, &p.Reinvested, &p.ProcessedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
