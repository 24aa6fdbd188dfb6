package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateSeatMap(t *testing.T) {
	showtime := &Showtime{
		ID:        1,
		BasePrice: decimal.NewFromFloat(10.00),
	}

	seats := GenerateSeatMap(showtime)

	assert.Len(t, seats, 100)

	counts := make(map[SeatCategory]int)
	for _, seat := range seats {
		counts[seat.Category]++

		assert.Equal(t, 1, seat.ShowtimeID)
		assert.Equal(t, SeatAvailable, seat.Status)

		switch seat.Category {
		case SeatStandard:
			assert.True(t, seat.Price.Equal(decimal.NewFromFloat(10.00)), "standard seat price mismatch: %s", seat.Price)
		case SeatPremium:
			assert.True(t, seat.Price.Equal(decimal.NewFromFloat(12.50)), "premium seat price mismatch: %s", seat.Price)
		case SeatVIP:
			assert.True(t, seat.Price.Equal(decimal.NewFromFloat(15.00)), "vip seat price mismatch: %s", seat.Price)
		}
	}

	assert.Equal(t, 70, counts[SeatStandard])
	assert.Equal(t, 20, counts[SeatPremium])
	assert.Equal(t, 10, counts[SeatVIP])

	// Row-major ordering: first seat is A1, last is J10.
	assert.Equal(t, "A", seats[0].Row)
	assert.Equal(t, 1, seats[0].Column)
	assert.Equal(t, "J", seats[len(seats)-1].Row)
	assert.Equal(t, 10, seats[len(seats)-1].Column)

	// Seat positions are unique within the showtime.
	positions := make(map[string]bool)
	for _, seat := range seats {
		key := fmt.Sprintf("%s%d", seat.Row, seat.Column)
		assert.False(t, positions[key], "duplicate seat position %s", key)
		positions[key] = true
	}
}
