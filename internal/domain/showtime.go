package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Showtime is one scheduled screening of a movie on a specific screen.
// AvailableSeats is derived from the seat map: between transactions it always
// equals TotalSeats minus the number of BOOKED seats.
type Showtime struct {
	ID             int
	MovieID        int
	Screen         string
	StartTime      time.Time
	Format         string
	BasePrice      decimal.Decimal
	TotalSeats     int
	AvailableSeats int
	CreatedAt      time.Time
}

// Availability is the ledger view used for catalog display. It is a derived,
// eventually-exact read; the authoritative check is always the seat
// transition itself.
type Availability struct {
	ShowtimeID     int
	TotalSeats     int
	AvailableSeats int
}

type ShowtimeRepository interface {
	GetById(ctx context.Context, showtimeID int) (*Showtime, error)
	GetAvailability(ctx context.Context, showtimeID int) (*Availability, error)

	// CreateWithSeatMap inserts the showtime together with its generated seat
	// map in one transaction. Used by the catalog collaborator and fixtures.
	CreateWithSeatMap(ctx context.Context, showtime *Showtime) error
}
