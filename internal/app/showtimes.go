package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cinema-ticketing/api"
	"cinema-ticketing/internal/domain"

	"github.com/redis/go-redis/v9"
)

func availabilityCacheKey(showtimeID int) string {
	return fmt.Sprintf("availability:%d", showtimeID)
}

// GetShowtimeAvailability serves the seat ledger view for catalog display.
// Cache reads are best-effort; a Redis failure degrades to the database, never
// to an error.
func (app *Application) GetShowtimeAvailability(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cacheKey := availabilityCacheKey(showtimeID)

	cached, err := app.redis.Get(r.Context(), cacheKey).Result()
	if err == nil {
		var resp api.AvailabilityResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			err = app.writeJSON(w, http.StatusOK, resp, nil)
			if err != nil {
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		app.contextGetLogger(r).Warn("availability cache read failed", "error", err)
	}

	availability, err := app.showtimeRepo.GetAvailability(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrShowtimeNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.AvailabilityResponse{
		ShowtimeId:     availability.ShowtimeID,
		TotalSeats:     availability.TotalSeats,
		AvailableSeats: availability.AvailableSeats,
	}

	if payload, err := json.Marshal(resp); err == nil {
		err = app.redis.Set(r.Context(), cacheKey, payload, app.config.Booking.AvailabilityCacheTTL).Err()
		if err != nil {
			app.contextGetLogger(r).Warn("availability cache write failed", "error", err)
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
