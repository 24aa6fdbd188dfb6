package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cinema-ticketing/api"
	"cinema-ticketing/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	loyaltyAccrualAttempts = 3
	loyaltyRetryDelay      = 500 * time.Millisecond
)

func (app *Application) GetLoyaltyBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := readIntParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	points, err := app.loyaltyRepo.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.LoyaltyBalanceResponse{
		UserId: userID,
		Points: points,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// accrueLoyalty credits the points earned by a committed booking. The accrual
// is keyed on the booking id, so retrying after a transient failure can never
// double-credit. Exhausting the retries leaves the booking intact; the points
// can be recredited by replaying the same accrual later.
func (app *Application) accrueLoyalty(ctx context.Context, booking *domain.Booking) {
	rate := decimal.NewFromFloat(app.config.Booking.LoyaltyRate)

	points := domain.PointsFor(booking.TotalAmount, rate)
	if points <= 0 {
		return
	}

	var err error
	for attempt := 1; attempt <= loyaltyAccrualAttempts; attempt++ {
		var credited bool

		credited, err = app.loyaltyRepo.Accrue(ctx, booking.UserID, booking.ID, points)
		if err == nil {
			if credited {
				app.metrics.loyaltyAccruals.Add(ctx, 1)
			}
			return
		}

		if attempt < loyaltyAccrualAttempts {
			time.Sleep(loyaltyRetryDelay)
		}
	}

	app.logger.Error("failed to accrue loyalty points",
		"booking_code", booking.Code,
		"user_id", booking.UserID,
		"points", points,
		"error", err,
	)
}
