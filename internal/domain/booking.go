package domain

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// reference returns prefix plus n random uppercase-alphanumeric characters.
func reference(prefix string, n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i := range buf {
		buf[i] = referenceCharset[int(buf[i])%len(referenceCharset)]
	}
	return prefix + string(buf)
}

// NewBookingNumber generates a BK-XXXXXXXX reference. Collisions are rare but
// possible; the repository retries the insert with a fresh number on a
// unique violation.
func NewBookingNumber() string {
	return reference("BK-", 8)
}

// NewTicketNumber generates a TK-XXXXXXXX reference for a single seat.
func NewTicketNumber() string {
	return reference("TK-", 8)
}

// NewBooking claims count seats on an event at its current price.
func NewBooking(event *Event, userID uuid.UUID, count int) Booking {
	return Booking{
		ID:            uuid.New(),
		BookingNumber: NewBookingNumber(),
		EventID:       event.ID,
		UserID:        userID,
		TicketsCount:  count,
		TotalAmount:   float64(count) * event.Price,
		Status:        BookingConfirmed,
		BookedAt:      time.Now().UTC(),
	}
}

// AdjustAvailability recomputes an availability counter after a capacity
// edit. The counter moves by the capacity delta so sold seats stay sold, then
// clamps into [0, newCapacity].
func AdjustAvailability(oldCapacity, newCapacity, available int) int {
	adjusted := available + (newCapacity - oldCapacity)
	if adjusted < 0 {
		return 0
	}
	if adjusted > newCapacity {
		return newCapacity
	}
	return adjusted
}
