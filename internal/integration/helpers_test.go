package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinema-ticketing/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "bookingCode"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func resetDatabase(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		TRUNCATE TABLE loyalty_transactions, booking_add_ons, booking_seats, bookings, seats, showtimes, users
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
}

func seedUser(t testing.TB, db *pgxpool.Pool, email string) int {
	t.Helper()

	var userID int
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (first_name, last_name, email)
		VALUES ('Ada', 'Lovelace', $1)
		RETURNING id
	`, email).Scan(&userID)
	require.NoError(t, err)

	return userID
}

func seedShowtime(t testing.TB, testApp *TestApp, basePrice float64) *domain.Showtime {
	t.Helper()

	showtime := &domain.Showtime{
		MovieID:   1,
		Screen:    "Screen 3",
		StartTime: time.Date(2095, 1, 1, 20, 0, 0, 0, time.UTC),
		Format:    "2D",
		BasePrice: decimal.NewFromFloat(basePrice),
	}

	err := testApp.ShowtimeRepo.CreateWithSeatMap(context.Background(), showtime)
	require.NoError(t, err)

	return showtime
}

func seatID(t testing.TB, db *pgxpool.Pool, showtimeID int, row string, col int) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(), `
		SELECT id FROM seats WHERE showtime_id = $1 AND seat_row = $2 AND seat_col = $3
	`, showtimeID, row, col).Scan(&id)
	require.NoError(t, err)

	return id
}

func seatStatus(t testing.TB, db *pgxpool.Pool, id int) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), `SELECT status FROM seats WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)

	return status
}

func availableSeats(t testing.TB, db *pgxpool.Pool, showtimeID int) int {
	t.Helper()

	var available int
	err := db.QueryRow(
		context.Background(),
		`SELECT available_seats FROM showtimes WHERE id = $1`,
		showtimeID,
	).Scan(&available)
	require.NoError(t, err)

	return available
}

func bookedSeatCount(t testing.TB, db *pgxpool.Pool, showtimeID int) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		context.Background(),
		`SELECT COUNT(*) FROM seats WHERE showtime_id = $1 AND status = 'BOOKED'`,
		showtimeID,
	).Scan(&count)
	require.NoError(t, err)

	return count
}

func loyaltyBalance(t testing.TB, db *pgxpool.Pool, userID int) int {
	t.Helper()

	var points int
	err := db.QueryRow(
		context.Background(),
		`SELECT loyalty_points FROM users WHERE id = $1`,
		userID,
	).Scan(&points)
	require.NoError(t, err)

	return points
}
