package mocks

import (
	"context"

	"cinema-ticketing/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockSeatRepo struct {
	mock.Mock
	domain.SeatRepository
}

func (m *MockSeatRepo) ListSeats(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepo) TransitionSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	from, to domain.SeatStatus) error {

	args := m.Called(ctx, showtimeID, seatIDs, from, to)
	return args.Error(0)
}
