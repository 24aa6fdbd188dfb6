package app

import (
	"errors"
	"net/http"

	"cinema-ticketing/api"
	"cinema-ticketing/internal/domain"
)

func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.seatRepo.ListSeats(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrShowtimeNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowtimeId: showtimeID,
		SeatRows:   toSeatRows(seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// toSeatRows groups the row-ordered seat list into per-row slices in a single
// pass.
func toSeatRows(seats []domain.Seat) []api.SeatRow {
	seatRows := make([]api.SeatRow, 0)

	for _, seat := range seats {
		apiSeat := api.Seat{
			Id:       seat.ID,
			Row:      seat.Row,
			Column:   seat.Column,
			Category: string(seat.Category),
			Price:    seat.Price,
			Status:   string(seat.Status),
		}

		if n := len(seatRows); n > 0 && seatRows[n-1].Row == seat.Row {
			seatRows[n-1].Seats = append(seatRows[n-1].Seats, apiSeat)
			continue
		}

		seatRows = append(seatRows, api.SeatRow{
			Row:   seat.Row,
			Seats: []api.Seat{apiSeat},
		})
	}

	return seatRows
}
