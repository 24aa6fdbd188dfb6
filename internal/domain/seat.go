package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

type SeatCategory string

const (
	SeatStandard SeatCategory = "STANDARD"
	SeatPremium  SeatCategory = "PREMIUM"
	SeatVIP      SeatCategory = "VIP"
)

// Seat belongs to exactly one showtime. Seat maps are generated per showtime,
// so two showtimes on the same physical screen never share seat rows. Status
// is the only field that changes after generation.
type Seat struct {
	ID         int
	ShowtimeID int
	Row        string
	Column     int
	Category   SeatCategory
	Price      decimal.Decimal
	Status     SeatStatus
}

type SeatRepository interface {
	// ListSeats returns every seat of the showtime ordered by row, then column.
	// Returns ErrShowtimeNotFound when the showtime does not exist.
	ListSeats(ctx context.Context, showtimeID int) ([]Seat, error)

	// TransitionSeats moves all of the given seats from one status to another,
	// keeping the showtime's availability counter in step within the same
	// atomic unit. Either every seat transitions or none does. Seats not
	// currently in the `from` status are reported via SeatsUnavailableError.
	TransitionSeats(ctx context.Context, showtimeID int, seatIDs []int, from, to SeatStatus) error
}

var seatRows = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

const seatsPerRow = 10

var (
	premiumExtra = decimal.NewFromFloat(2.50)
	vipExtra     = decimal.NewFromFloat(5.00)
)

// GenerateSeatMap builds the seat map for a new showtime: ten rows of ten
// seats, the two rows before the back row priced as PREMIUM and the back row
// as VIP. The returned seats are ordered by row, then column.
func GenerateSeatMap(showtime *Showtime) []Seat {
	seats := make([]Seat, 0, len(seatRows)*seatsPerRow)

	for i, row := range seatRows {
		category := SeatStandard
		price := showtime.BasePrice

		switch {
		case i == len(seatRows)-1:
			category = SeatVIP
			price = price.Add(vipExtra)
		case i >= len(seatRows)-3:
			category = SeatPremium
			price = price.Add(premiumExtra)
		}

		for col := 1; col <= seatsPerRow; col++ {
			seats = append(seats, Seat{
				ShowtimeID: showtime.ID,
				Row:        row,
				Column:     col,
				Category:   category,
				Price:      price,
				Status:     SeatAvailable,
			})
		}
	}

	return seats
}
