package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

type HoldingRepository interface {
	ListByPortfolio(ctx context.Context, portfolioID int) ([]models.Holding, error)
	ListBySymbolInPortfolio(ctx context.Context, portfolioID int, symbol string) ([]models.Holding, error)
	ListByUser(ctx context.Context, userID string) ([]models.Holding, error)
	GetByID(ctx context.Context, id int) (*models.Holding, error)
	Create(ctx context.Context, tx Tx, h *models.Holding) error
	Update(ctx context.Context, tx Tx, h *models.Holding) error
	Delete(ctx context.Context, tx Tx, id int) error
	DistinctSymbols(ctx context.Context, portfolioID int) ([]string, error)
	DistinctSymbolsAll(ctx context.Context) ([]string, error)
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

const holdingColumns = `id, portfolio_id, symbol, shares, avg_price, reinvest_dividends, purchase_date`

func scanHoldings(rows pgx.Rows) ([]models.Holding, error) {
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Shares, &h.AvgPrice, &h.ReinvestDividends, &h.PurchaseDate); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) ListByPortfolio(ctx context.Context, portfolioID int) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+holdingColumns+` FROM holdings WHERE portfolio_id = $1 ORDER BY id`, portfolioID)
	if err != nil {
		return nil, err
	}
	return scanHoldings(rows)
}

func (r *holdingRepo) ListBySymbolInPortfolio(ctx context.Context, portfolioID int, symbol string) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+holdingColumns+` FROM holdings
		WHERE portfolio_id = $1 AND UPPER(symbol) = UPPER($2)
		ORDER BY id`, portfolioID, symbol)
	if err != nil {
		return nil, err
	}
	return scanHoldings(rows)
}

func (r *holdingRepo) ListByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.portfolio_id, h.symbol, h.shares, h.avg_price, h.reinvest_dividends, h.purchase_date
		FROM holdings h
		JOIN portfolios p ON p.id = h.portfolio_id
		WHERE p.user_id = $1
		ORDER BY h.id`, userID)
	if err != nil {
		return nil, err
	}
	return scanHoldings(rows)
}

func (r *holdingRepo) GetByID(ctx context.Context, id int) (*models.Holding, error) {
	var h models.Holding
	err := r.db.QueryRow(ctx,
		`SELECT `+holdingColumns+` FROM holdings WHERE id = $1`, id).
		Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Shares, &h.AvgPrice, &h.ReinvestDividends, &h.PurchaseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holdingRepo) Create(ctx context.Context, tx Tx, h *models.Holding) error {
	if h.PurchaseDate.IsZero() {
		h.PurchaseDate = time.Now().UTC()
	}
	return inTx(r.db, tx).QueryRow(ctx,
		`INSERT INTO holdings (portfolio_id, symbol, shares, avg_price, reinvest_dividends, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		h.PortfolioID, h.Symbol, h.Shares, h.AvgPrice, h.ReinvestDividends, h.PurchaseDate).Scan(&h.ID)
}

func (r *holdingRepo) Update(ctx context.Context, tx Tx, h *models.Holding) error {
	_, err := inTx(r.db, tx).Exec(ctx,
		`UPDATE holdings
		SET shares = $2, avg_price = $3, reinvest_dividends = $4, purchase_date = $5
		WHERE id = $1`,
		h.ID, h.Shares, h.AvgPrice, h.ReinvestDividends, h.PurchaseDate)
	return err
}

func (r *holdingRepo) Delete(ctx context.Context, tx Tx, id int) error {
	_, err := inTx(r.db, tx).Exec(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	return err
}

func (r *holdingRepo) DistinctSymbols(ctx context.Context, portfolioID int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT UPPER(symbol) FROM holdings
		WHERE portfolio_id = $1 AND shares > 0
		ORDER BY 1`, portfolioID)
	if err != nil {
		return nil, err
	}
	return scanSymbols(rows)
}

func (r *holdingRepo) DistinctSymbolsAll(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT UPPER(symbol) FROM holdings WHERE shares > 0 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	return scanSymbols(rows)
}

func scanSymbols(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
