package domain

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^BK-[A-Z0-9]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewBookingNumber()
		assert.Regexp(t, re, n)
		seen[n] = true
	}
	// 100 draws from a 36^8 space should not collide
	assert.Len(t, seen, 100)
}

func TestNewTicketNumber_Format(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^TK-[A-Z0-9]{8}$`), NewTicketNumber())
}

func TestNewBooking(t *testing.T) {
	event := &Event{ID: uuid.New(), Price: 10.0}
	userID := uuid.New()

	b := NewBooking(event, userID, 1)

	assert.Equal(t, event.ID, b.EventID)
	assert.Equal(t, userID, b.UserID)
	assert.Equal(t, 1, b.TicketsCount)
	assert.Equal(t, 10.0, b.TotalAmount)
	assert.Equal(t, BookingConfirmed, b.Status)
	assert.NotEmpty(t, b.BookingNumber)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"attendee", "organizer", "admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseRole("Admin")
	assert.Error(t, err, "role parsing is case sensitive")
}

func TestRoleCapabilities(t *testing.T) {
	assert.False(t, RoleAttendee.CanManageEvents())
	assert.True(t, RoleOrganizer.CanManageEvents())
	assert.True(t, RoleAdmin.CanManageEvents())

	assert.False(t, RoleOrganizer.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
}

func TestAdjustAvailability(t *testing.T) {
	tests := []struct {
		name                         string
		oldCap, newCap, avail, want int
	}{
		{"capacity grows", 10, 15, 4, 9},
		{"capacity shrinks", 10, 8, 4, 2},
		{"shrink below sold count clamps to zero", 10, 3, 4, 0},
		{"unchanged", 10, 10, 4, 4},
		{"never exceeds new capacity", 10, 5, 12, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustAvailability(tt.oldCap, tt.newCap, tt.avail)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, tt.newCap)
		})
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("concert"))
	assert.False(t, ValidCategory("rave"))
	assert.False(t, ValidCategory(""))
}

func TestEventSoldOut(t *testing.T) {
	e := &Event{AvailableTickets: 1}
	assert.False(t, e.SoldOut())
	e.AvailableTickets = 0
	assert.True(t, e.SoldOut())
}
