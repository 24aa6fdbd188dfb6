package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is an immutable, committed reservation of one or more seats for a
// single user and showtime. It is created atomically with the seat
// transition; there is never a Booking without its seats marked BOOKED, nor
// the other way around.
type Booking struct {
	ID          int
	Code        string
	UserID      int
	ShowtimeID  int
	SeatIDs     []int
	AddOns      []AddOn
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// AddOn is one food or merchandise line attached to a booking. Add-ons are
// passed in explicitly with the booking request rather than read from any
// ambient cart state.
type AddOn struct {
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (a AddOn) LineTotal() decimal.Decimal {
	return a.UnitPrice.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// BookingSummary is the per-user listing projection.
type BookingSummary struct {
	ID          int
	Code        string
	ShowtimeID  int
	StartTime   time.Time
	Screen      string
	SeatCount   int
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

type BookingRepository interface {
	// Create commits the booking: the seat transition, the availability
	// decrement and the booking rows form one atomic unit. On a booking code
	// collision only the insert is retried with a fresh code; the seat
	// transition is not re-executed. On return the booking's ID, Code,
	// TotalAmount and CreatedAt are populated.
	Create(ctx context.Context, booking *Booking) error

	GetByCode(ctx context.Context, code string) (*Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
}

// NewBookingCode returns an 8 character, human-presentable booking code.
// Codes are not guaranteed unique by construction; the booking repository
// retries with a fresh code on collision.
func NewBookingCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// TotalAmount is the committed price of a booking: the sum of the booked
// seats' unit prices plus every add-on line total.
func TotalAmount(seatPrices []decimal.Decimal, addOns []AddOn) decimal.Decimal {
	total := decimal.Zero

	for _, p := range seatPrices {
		total = total.Add(p)
	}

	for _, a := range addOns {
		total = total.Add(a.LineTotal())
	}

	return total
}
