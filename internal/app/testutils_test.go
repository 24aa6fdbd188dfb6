package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinema-ticketing/api"
	"cinema-ticketing/internal/mailer"
	"cinema-ticketing/internal/mocks"
	appvalidator "cinema-ticketing/internal/validator"

	"github.com/go-chi/chi/v5"
)

func newTestApplication(opts ...func(*Application)) *Application {
	m, _ := newMetrics()

	app := &Application{
		config: Config{
			Env: "test",
			Booking: BookingConfig{
				MaxSeatsPerBooking:   6,
				LoyaltyRate:          0.1,
				AvailabilityCacheTTL: 10 * time.Second,
			},
		},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator:    appvalidator.NewValidator(),
		mailer:       &mailer.MockMailer{},
		metrics:      m,
		showtimeRepo: &mocks.MockShowtimeRepo{},
		seatRepo:     &mocks.MockSeatRepo{},
		bookingRepo:  &mocks.MockBookingRepo{},
		loyaltyRepo:  &mocks.MockLoyaltyRepo{},
		userRepo:     &mocks.MockUserRepo{},
		redis:        &mocks.MockRedisClient{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withURLParams attaches chi route parameters to a request built outside the
// router, so handlers can be exercised directly.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
