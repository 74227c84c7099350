package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

type PortfolioRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error)
	GetByID(ctx context.Context, id int) (*models.Portfolio, error)
	Create(ctx context.Context, p *models.Portfolio) error
	Delete(ctx context.Context, id int) error
	CountByUserAndType(ctx context.Context, userID string, portfolioType models.PortfolioType) (int, []string, error)
	Begin(ctx context.Context) (Tx, error)
	SetCashBalance(ctx context.Context, tx Tx, id int, balance float64) error
	AddCash(ctx context.Context, tx Tx, id int, amount float64) error
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, portfolio_type, cash_balance, created_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []models.Portfolio
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.PortfolioType, &p.CashBalance, &p.CreatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

func (r *portfolioRepo) GetByID(ctx context.Context, id int) (*models.Portfolio, error) {
	var p models.Portfolio
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, portfolio_type, cash_balance, created_at
		FROM portfolios WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.PortfolioType, &p.CashBalance, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepo) Create(ctx context.Context, p *models.Portfolio) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO portfolios (user_id, name, portfolio_type, cash_balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.UserID, p.Name, p.PortfolioType, p.CashBalance, p.CreatedAt).Scan(&p.ID)
}

func (r *portfolioRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM holdings WHERE portfolio_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *portfolioRepo) CountByUserAndType(ctx context.Context, userID string, portfolioType models.PortfolioType) (int, []string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name FROM portfolios WHERE user_id = $1 AND portfolio_type = $2`,
		userID, portfolioType)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return 0, nil, err
		}
		names = append(names, name)
	}
	return len(names), names, rows.Err()
}

// Begin opens a transaction for the cash-and-holding flows that must commit
// together.
func (r *portfolioRepo) Begin(ctx context.Context) (Tx, error) {
	return r.db.Begin(ctx)
}

func (r *portfolioRepo) SetCashBalance(ctx context.Context, tx Tx, id int, balance float64) error {
	_, err := inTx(r.db, tx).Exec(ctx,
		`UPDATE portfolios SET cash_balance = $2 WHERE id = $1`, id, balance)
	return err
}

func (r *portfolioRepo) AddCash(ctx context.Context, tx Tx, id int, amount float64) error {
	_, err := inTx(r.db, tx).Exec(ctx,
		`UPDATE portfolios SET cash_balance = cash_balance + $2 WHERE id = $1`, id, amount)
	return err
}
