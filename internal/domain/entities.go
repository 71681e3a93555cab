package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}

// OrganizerProfile is the optional 1:1 extension of an organizer account.
type OrganizerProfile struct {
	UserID       uuid.UUID
	Organization string
	Bio          string
	Website      string
	CreatedAt    time.Time
}

type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID               uuid.UUID
	Title            string
	Description      string
	StartsAt         time.Time
	Location         string
	Address          string
	Image            string
	Price            float64
	Capacity         int
	AvailableTickets int
	Category         string
	OrganizerID      uuid.UUID
	Status           EventStatus
	CreatedAt        time.Time
}

// SoldOut reports whether no further bookings can be accepted.
func (e *Event) SoldOut() bool {
	return e.AvailableTickets < 1
}

// Categories an event may be filed under. The list is closed; forms reject
// anything else.
var Categories = []string{"concert", "conference", "workshop", "sports", "festival", "other"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            uuid.UUID
	BookingNumber string
	EventID       uuid.UUID
	UserID        uuid.UUID
	TicketsCount  int
	TotalAmount   float64
	Status        BookingStatus
	BookedAt      time.Time
}

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

// Ticket is the per-seat record issued for each seat of a confirmed booking.
type Ticket struct {
	ID           uuid.UUID
	TicketNumber string
	BookingID    uuid.UUID
	EventID      uuid.UUID
	UserID       uuid.UUID
	Status       TicketStatus
	PurchasedAt  time.Time
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is 1:1 with a Booking. No gateway is integrated; rows start
// pending and transition out of band.
type Payment struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Amount    float64
	Method    string
	Status    PaymentStatus
	CreatedAt time.Time
}

type Review struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	UserID    uuid.UUID
	Author    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
