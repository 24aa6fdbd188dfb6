package repository

import (
	"context"
	"errors"

	"cinema-ticketing/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, showtimeID int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, screen, start_time, format, base_price, total_seats, available_seats, created_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.Screen,
		&showtime.StartTime,
		&showtime.Format,
		&showtime.BasePrice,
		&showtime.TotalSeats,
		&showtime.AvailableSeats,
		&showtime.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error) {
	query := `
		SELECT id, total_seats, available_seats
		FROM showtimes
		WHERE id = $1
	`

	var availability domain.Availability

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(
		&availability.ShowtimeID,
		&availability.TotalSeats,
		&availability.AvailableSeats,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	return &availability, nil
}

// CreateWithSeatMap inserts the showtime and generates its seat map in one
// transaction. The availability counter starts at the seat map size.
func (p *PostgresShowtimeRepository) CreateWithSeatMap(ctx context.Context, showtime *domain.Showtime) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		seats := domain.GenerateSeatMap(showtime)

		showtime.TotalSeats = len(seats)
		showtime.AvailableSeats = len(seats)

		query := `
			INSERT INTO showtimes (movie_id, screen, start_time, format, base_price, total_seats, available_seats)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			showtime.MovieID,
			showtime.Screen,
			showtime.StartTime,
			showtime.Format,
			showtime.BasePrice,
			showtime.TotalSeats,
			showtime.AvailableSeats).Scan(&showtime.ID, &showtime.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(seats))
		for _, seat := range seats {
			rows = append(rows, []any{
				showtime.ID,
				seat.Row,
				seat.Column,
				seat.Category,
				seat.Price,
				seat.Status,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seats"},
			[]string{"showtime_id", "seat_row", "seat_col", "category", "price", "status"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}
