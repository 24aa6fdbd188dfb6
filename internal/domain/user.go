package domain

import (
	"context"
	"time"
)

// User carries the slice of the user record the booking core needs: an
// identity to bill, an address for the confirmation mail and the loyalty
// balance. Account management lives with the external collaborator.
type User struct {
	ID            int
	FirstName     string
	LastName      string
	Email         string
	LoyaltyPoints int
	CreatedAt     time.Time
}

type UserRepository interface {
	GetById(ctx context.Context, userID int) (*User, error)
}
