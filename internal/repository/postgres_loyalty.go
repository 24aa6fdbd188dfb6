package repository

import (
	"context"
	"errors"

	"cinema-ticketing/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLoyaltyRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLoyaltyRepository(db *pgxpool.Pool) *PostgresLoyaltyRepository {
	return &PostgresLoyaltyRepository{
		db: db,
	}
}

// Accrue credits points to the user and records which booking triggered the
// accrual, in one transaction. The unique booking id makes retries
// idempotent: a booking that has already been credited reports false and
// leaves the balance untouched.
func (p *PostgresLoyaltyRepository) Accrue(ctx context.Context, userID, bookingID, points int) (bool, error) {
	credited := false

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO loyalty_transactions (user_id, booking_id, points)
			VALUES ($1, $2, $3)
			ON CONFLICT (booking_id) DO NOTHING
		`

		tag, err := tx.Exec(ctx, query, userID, bookingID, points)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return nil
		}

		tag, err = tx.Exec(ctx, `UPDATE users SET loyalty_points = loyalty_points + $1 WHERE id = $2`, points, userID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		credited = true

		return nil
	})

	return credited, err
}

func (p *PostgresLoyaltyRepository) GetBalance(ctx context.Context, userID int) (int, error) {
	var points int

	err := p.db.QueryRow(ctx, `SELECT loyalty_points FROM users WHERE id = $1`, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRecordNotFound
		}

		return 0, err
	}

	return points, nil
}
