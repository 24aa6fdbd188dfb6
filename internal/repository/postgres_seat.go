package repository

import (
	"context"

	"cinema-ticketing/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) ListSeats(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	query := `
		SELECT id, showtime_id, seat_row, seat_col, category, price, status
		FROM seats
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.ShowtimeID,
			&seat.Row,
			&seat.Column,
			&seat.Category,
			&seat.Price,
			&seat.Status,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seats) == 0 {
		var exists bool
		err = p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrShowtimeNotFound
		}
	}

	return seats, nil
}

func (p *PostgresSeatRepository) TransitionSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	from, to domain.SeatStatus) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := transitionSeats(ctx, tx, showtimeID, seatIDs, from, to)
		if err != nil {
			return err
		}

		switch {
		case to == domain.SeatBooked:
			return decrementAvailable(ctx, tx, showtimeID, len(seatIDs))
		case from == domain.SeatBooked:
			return incrementAvailable(ctx, tx, showtimeID, len(seatIDs))
		default:
			return nil
		}
	})
}

// transitionSeats flips every seat in seatIDs from one status to another
// within the caller's transaction. The inner SELECT locks the rows in id
// order, so two transactions claiming overlapping seats always queue in the
// same order instead of deadlocking. The status condition only matches rows
// still in the `from` status; a concurrent transaction holding any of the
// rows forces this one to wait and then re-evaluate, so two bookings can
// never both claim the same seat. If any seat cannot transition the whole
// statement is diagnosed and the caller is expected to roll back.
func transitionSeats(
	ctx context.Context,
	tx pgx.Tx,
	showtimeID int,
	seatIDs []int,
	from, to domain.SeatStatus) error {

	query := `
		UPDATE seats
		SET status = $1
		WHERE id IN (
			SELECT id FROM seats
			WHERE showtime_id = $2 AND id = ANY($3) AND status = $4
			ORDER BY id
			FOR UPDATE
		)
		RETURNING id
	`

	rows, err := tx.Query(ctx, query, to, showtimeID, seatIDs, from)
	if err != nil {
		return err
	}

	transitioned := make(map[int]bool, len(seatIDs))

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		transitioned[id] = true
	}
	rows.Close()

	if err = rows.Err(); err != nil {
		return err
	}

	if len(transitioned) == len(seatIDs) {
		return nil
	}

	return diagnoseTransitionFailure(ctx, tx, showtimeID, seatIDs, transitioned)
}

// diagnoseTransitionFailure distinguishes a showtime that does not exist from
// seat ids that do not belong to it, and those from seats that were simply no
// longer in the expected status.
func diagnoseTransitionFailure(
	ctx context.Context,
	tx pgx.Tx,
	showtimeID int,
	seatIDs []int,
	transitioned map[int]bool) error {

	rows, err := tx.Query(ctx, `SELECT id FROM seats WHERE showtime_id = $1 AND id = ANY($2)`, showtimeID, seatIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	known := make(map[int]bool, len(seatIDs))

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		known[id] = true
	}

	if err = rows.Err(); err != nil {
		return err
	}

	conflicting := make([]int, 0, len(seatIDs))

	for _, id := range seatIDs {
		if !known[id] {
			var exists bool
			err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
			if err != nil {
				return err
			}

			if !exists {
				return domain.ErrShowtimeNotFound
			}

			return domain.ErrSeatNotInShowtime
		}
		if !transitioned[id] {
			conflicting = append(conflicting, id)
		}
	}

	return &domain.SeatsUnavailableError{SeatIDs: conflicting}
}

// decrementAvailable adjusts the showtime ledger. It must only ever run in
// the same transaction as a successful seat transition, so the counter and
// the seat map move as one unit.
func decrementAvailable(ctx context.Context, tx pgx.Tx, showtimeID, by int) error {
	query := `
		UPDATE showtimes
		SET available_seats = available_seats - $1
		WHERE id = $2 AND available_seats >= $1
	`

	tag, err := tx.Exec(ctx, query, by, showtimeID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrShowtimeNotFound
	}

	return domain.ErrAvailabilityDrift
}

// incrementAvailable is the reverse ledger move for seats released back to the
// floor. The guard keeps the counter within total_seats.
func incrementAvailable(ctx context.Context, tx pgx.Tx, showtimeID, by int) error {
	query := `
		UPDATE showtimes
		SET available_seats = available_seats + $1
		WHERE id = $2 AND available_seats + $1 <= total_seats
	`

	tag, err := tx.Exec(ctx, query, by, showtimeID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrShowtimeNotFound
	}

	return domain.ErrAvailabilityDrift
}

func seatPrices(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]decimal.Decimal, error) {
	rows, err := tx.Query(ctx, `SELECT price FROM seats WHERE showtime_id = $1 AND id = ANY($2)`, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make([]decimal.Decimal, 0, len(seatIDs))

	for rows.Next() {
		var price decimal.Decimal
		if err := rows.Scan(&price); err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}
