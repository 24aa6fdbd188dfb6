package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyTransaction records which booking triggered which accrual. The
// booking id is unique per transaction, so an asynchronous retry of a
// committed accrual can never double-credit.
type LoyaltyTransaction struct {
	ID        int
	UserID    int
	BookingID int
	Points    int
	CreatedAt time.Time
}

type LoyaltyRepository interface {
	// Accrue credits the points to the user's balance and records the
	// triggering booking, in one transaction. It reports false without error
	// when the booking has already been credited.
	Accrue(ctx context.Context, userID, bookingID, points int) (bool, error)

	GetBalance(ctx context.Context, userID int) (int, error)
}

// PointsFor converts a paid amount into loyalty points: floor(amount * rate).
func PointsFor(amount, rate decimal.Decimal) int {
	return int(amount.Mul(rate).IntPart())
}
