package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cinema-ticketing/api"
	"cinema-ticketing/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if len(req.SeatIds) > app.config.Booking.MaxSeatsPerBooking {
		app.badRequestResponse(w, r, fmt.Errorf("a booking may hold at most %d seats", app.config.Booking.MaxSeatsPerBooking))
		return
	}

	for _, addOn := range req.AddOns {
		if addOn.UnitPrice.IsNegative() {
			app.badRequestResponse(w, r, fmt.Errorf("add-on %q has a negative unit price", addOn.ItemId))
			return
		}
	}

	user, err := app.userRepo.GetById(r.Context(), req.UserId)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponseWithErr(w, r, fmt.Errorf("user %d not found", req.UserId))
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		UserID:     req.UserId,
		ShowtimeID: req.ShowtimeId,
		SeatIDs:    req.SeatIds,
		AddOns:     toDomainAddOns(req.AddOns),
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		var unavailableErr *domain.SeatsUnavailableError

		switch {
		case errors.As(err, &unavailableErr):
			app.metrics.seatConflicts.Add(r.Context(), 1)
			app.seatsUnavailableResponse(w, r, unavailableErr.SeatIDs)
		case errors.Is(err, domain.ErrSeatNotInShowtime):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("showtime %d not found", req.ShowtimeId))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.metrics.bookingsCommitted.Add(r.Context(), 1)

	logger := app.contextGetLogger(r)
	logger.Info("booking committed",
		"booking_code", booking.Code,
		"showtime_id", booking.ShowtimeID,
		"seat_count", len(booking.SeatIDs),
		"total_amount", booking.TotalAmount.String(),
	)

	// Side effects run after the commit and never affect the response. The
	// request context is about to end, so they get a detached copy of it.
	go app.finalizeBooking(context.WithoutCancel(r.Context()), user, booking)

	resp := api.BookingResponse{
		BookingCode: booking.Code,
		ShowtimeId:  booking.ShowtimeID,
		SeatIds:     booking.SeatIDs,
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// finalizeBooking runs the post-commit side effects of a successful booking:
// loyalty accrual, the confirmation email and the availability cache
// invalidation. Each is independent; a failure is logged and the rest proceed.
func (app *Application) finalizeBooking(ctx context.Context, user *domain.User, booking *domain.Booking) {
	defer func() {
		if err := recover(); err != nil {
			app.logger.Error("panic while finalizing booking", "booking_code", booking.Code, "error", err)
		}
	}()

	app.accrueLoyalty(ctx, booking)

	err := app.redis.Del(ctx, availabilityCacheKey(booking.ShowtimeID)).Err()
	if err != nil {
		app.logger.Warn("availability cache invalidation failed", "showtime_id", booking.ShowtimeID, "error", err)
	}

	showtime, err := app.showtimeRepo.GetById(ctx, booking.ShowtimeID)
	if err != nil {
		app.logger.Error("failed to load showtime for confirmation email", "booking_code", booking.Code, "error", err)
		return
	}

	data := map[string]any{
		"bookingCode": booking.Code,
		"firstName":   user.FirstName,
		"startTime":   showtime.StartTime,
		"screen":      showtime.Screen,
		"seatCount":   len(booking.SeatIDs),
		"totalAmount": booking.TotalAmount.String(),
	}

	err = app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
	if err != nil {
		app.logger.Error("failed to send booking confirmation email", "booking_code", booking.Code, "error", err)
	}
}

func (app *Application) GetBookingByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "bookingCode")
	if code == "" {
		app.badRequestResponse(w, r, errors.New("booking code must not be empty"))
		return
	}

	booking, err := app.bookingRepo.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingResponse{
		BookingCode: booking.Code,
		ShowtimeId:  booking.ShowtimeID,
		SeatIds:     booking.SeatIDs,
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := readIntParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination, err := readPagination(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiSummaries := make([]api.BookingSummary, len(summaries))
	for i, s := range summaries {
		apiSummaries[i] = api.BookingSummary{
			Id:          s.ID,
			BookingCode: s.Code,
			ShowtimeId:  s.ShowtimeID,
			StartTime:   s.StartTime,
			Screen:      s.Screen,
			SeatCount:   s.SeatCount,
			TotalAmount: s.TotalAmount,
			CreatedAt:   s.CreatedAt,
		}
	}

	resp := api.UserBookingsResponse{
		Bookings: apiSummaries,
		Metadata: api.Metadata{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toDomainAddOns(items []api.AddOnItem) []domain.AddOn {
	if len(items) == 0 {
		return nil
	}

	addOns := make([]domain.AddOn, len(items))
	for i, item := range items {
		addOns[i] = domain.AddOn{
			ItemID:    item.ItemId,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return addOns
}
