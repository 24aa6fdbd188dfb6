package repository

import (
	"context"
	"errors"

	"cinema-ticketing/internal/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxCodeAttempts bounds booking code regeneration on collision. With an
// 8 hex character code collisions are already rare; hitting the bound means
// something is badly wrong and the whole transaction is rolled back.
const maxCodeAttempts = 5

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create commits a booking as one atomic unit: the conditional seat
// transition, the availability decrement, the booking row and its seat and
// add-on lines either all land or none do. Any error after the seat update
// aborts the transaction, so no compensation logic is needed; the database
// rolls the seats back with everything else.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := transitionSeats(ctx, tx, booking.ShowtimeID, booking.SeatIDs, domain.SeatAvailable, domain.SeatBooked)
		if err != nil {
			return err
		}

		err = decrementAvailable(ctx, tx, booking.ShowtimeID, len(booking.SeatIDs))
		if err != nil {
			return err
		}

		prices, err := seatPrices(ctx, tx, booking.ShowtimeID, booking.SeatIDs)
		if err != nil {
			return err
		}

		booking.TotalAmount = domain.TotalAmount(prices, booking.AddOns)

		err = p.insertBooking(ctx, tx, booking)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.SeatIDs))
		for _, seatID := range booking.SeatIDs {
			rows = append(rows, []any{
				booking.ID,
				booking.ShowtimeID,
				seatID,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		return p.insertAddOns(ctx, tx, booking)
	})
}

// insertBooking assigns the booking code. A collision with an existing code
// rolls back to a savepoint and retries the insert alone with a fresh code;
// the seat transition earlier in the transaction is never re-executed.
func (p *PostgresBookingRepository) insertBooking(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (booking_code, user_id, showtime_id, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if booking.Code == "" {
		booking.Code = domain.NewBookingCode()
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return err
		}

		err = sp.QueryRow(
			ctx,
			query,
			booking.Code,
			booking.UserID,
			booking.ShowtimeID,
			booking.TotalAmount).Scan(&booking.ID, &booking.CreatedAt)

		if err == nil {
			return sp.Commit(ctx)
		}

		rollbackErr := sp.Rollback(ctx)
		if rollbackErr != nil {
			return errors.Join(err, rollbackErr)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == "bookings_booking_code_key" {

			booking.Code = domain.NewBookingCode()
			continue
		}

		return err
	}

	return domain.ErrBookingCodeExhausted
}

func (p *PostgresBookingRepository) insertAddOns(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	if len(booking.AddOns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for _, addOn := range booking.AddOns {
		batch.Queue(
			`INSERT INTO booking_add_ons (booking_id, item_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			booking.ID,
			addOn.ItemID,
			addOn.Quantity,
			addOn.UnitPrice,
		)
	}

	return tx.SendBatch(ctx, batch).Close()
}

func (p *PostgresBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	query := `
		SELECT id, booking_code, user_id, showtime_id, total_amount, created_at
		FROM bookings
		WHERE booking_code = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, code).Scan(
		&booking.ID,
		&booking.Code,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.TotalAmount,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	booking.SeatIDs, err = p.retrieveSeatIds(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.AddOns, err = p.retrieveAddOns(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveSeatIds(ctx context.Context, bookingID int) ([]int, error) {
	rows, err := p.db.Query(ctx, `SELECT seat_id FROM booking_seats WHERE booking_id = $1 ORDER BY seat_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int, 0)

	for rows.Next() {
		var seatID int
		if err := rows.Scan(&seatID); err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}

func (p *PostgresBookingRepository) retrieveAddOns(ctx context.Context, bookingID int) ([]domain.AddOn, error) {
	rows, err := p.db.Query(
		ctx,
		`SELECT item_id, quantity, unit_price FROM booking_add_ons WHERE booking_id = $1`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addOns := make([]domain.AddOn, 0)

	for rows.Next() {
		var addOn domain.AddOn
		if err := rows.Scan(&addOn.ItemID, &addOn.Quantity, &addOn.UnitPrice); err != nil {
			return nil, err
		}
		addOns = append(addOns, addOn)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return addOns, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.booking_code,
			b.showtime_id,
			s.start_time,
			s.screen,
			(SELECT COUNT(*) FROM booking_seats bs WHERE bs.booking_id = b.id),
			b.total_amount,
			b.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&booking.ID,
			&booking.Code,
			&booking.ShowtimeID,
			&booking.StartTime,
			&booking.Screen,
			&booking.SeatCount,
			&booking.TotalAmount,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}
