package mocks

import (
	"context"

	"cinema-ticketing/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockLoyaltyRepo struct {
	mock.Mock
	domain.LoyaltyRepository
}

func (m *MockLoyaltyRepo) Accrue(ctx context.Context, userID, bookingID, points int) (bool, error) {
	args := m.Called(ctx, userID, bookingID, points)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoyaltyRepo) GetBalance(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
