package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/src/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	AddDividendsReceived(ctx context.Context, userID string, amount float64) error
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(email, ''), created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Upsert(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email)`,
		u.ID, u.Email, u.CreatedAt)
	return err
}

func (r *userRepo) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, cash_balance, total_dividends_received, last_updated
		FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &p.CashBalance, &p.TotalDividendsReceived, &p.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepo) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := r.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	var p models.UserProfile
	err = r.db.QueryRow(ctx,
		`INSERT INTO user_profiles (user_id, cash_balance, total_dividends_received, last_updated)
		VALUES ($1, 0, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE SET last_updated = user_profiles.last_updated
		RETURNING id, user_id, cash_balance, total_dividends_received, last_updated`, userID).
		Scan(&p.ID, &p.UserID, &p.CashBalance, &p.TotalDividendsReceived, &p.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepo) AddDividendsReceived(ctx context.Context, userID string, amount float64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_profiles
		SET total_dividends_received = total_dividends_received + $2, last_updated = NOW()
		WHERE user_id = $1`,
		userID, amount)
	return err
}
