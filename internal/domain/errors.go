package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrShowtimeNotFound     = errors.New("showtime not found")
	ErrSeatNotInShowtime    = errors.New("seat does not belong to the given showtime")
	ErrAvailabilityDrift    = errors.New("available seat counter out of sync with seat map")
	ErrBookingCodeExhausted = errors.New("could not assign a unique booking code")
)

// SeatsUnavailableError reports a booking attempt that lost the race for one
// or more seats. It carries the ids of the seats that were no longer
// AVAILABLE at transition time so the caller can re-render exactly those.
type SeatsUnavailableError struct {
	SeatIDs []int
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seat(s) no longer available: %v", e.SeatIDs)
}
