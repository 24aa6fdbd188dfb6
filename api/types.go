// Package api holds the request and response types of the HTTP boundary.
// The surface is small enough to maintain by hand.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SeatsUnavailableResponse is returned with 409 Conflict when a booking
// attempt loses the race for one or more of its seats. ConflictingSeatIds
// lets the client re-render exactly the seats that were taken.
type SeatsUnavailableResponse struct {
	Message            string    `json:"message"`
	ConflictingSeatIds []int     `json:"conflictingSeatIds"`
	RequestId          string    `json:"requestId,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Seat struct {
	Id       int             `json:"id"`
	Row      string          `json:"row"`
	Column   int             `json:"column"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type AvailabilityResponse struct {
	ShowtimeId     int `json:"showtimeId"`
	TotalSeats     int `json:"totalSeats"`
	AvailableSeats int `json:"availableSeats"`
}

type AddOnItem struct {
	ItemId    string          `json:"itemId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateBookingRequest struct {
	UserId     int         `json:"userId" validate:"required,gt=0"`
	ShowtimeId int         `json:"showtimeId" validate:"required,gt=0"`
	SeatIds    []int       `json:"seatIds" validate:"required,min=1,unique,dive,gt=0"`
	AddOns     []AddOnItem `json:"addOns,omitempty" validate:"omitempty,dive"`
}

type BookingResponse struct {
	BookingCode string          `json:"bookingCode"`
	ShowtimeId  int             `json:"showtimeId"`
	SeatIds     []int           `json:"seatIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	Id          int             `json:"id"`
	BookingCode string          `json:"bookingCode"`
	ShowtimeId  int             `json:"showtimeId"`
	StartTime   time.Time       `json:"startTime"`
	Screen      string          `json:"screen"`
	SeatCount   int             `json:"seatCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type LoyaltyBalanceResponse struct {
	UserId int `json:"userId"`
	Points int `json:"points"`
}
