package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lumiclabs/EventHub/internal/domain"
)

// bookingNumberAttempts bounds the retry loop on a BK- reference collision.
const bookingNumberAttempts = 3

// CreateBooking claims booking.TicketsCount seats on an event as one atomic
// unit: conditional counter decrement, booking row, one ticket row per seat,
// and the pending payment row. Either all of it commits or none of it does.
//
// The decrement is guarded in SQL (available_tickets >= count) rather than
// checked first in Go, so two racing requests for the last seat cannot both
// pass: the second one affects zero rows and the unit is rolled back with
// ErrSoldOut.
//
// booking.BookingNumber may be rewritten if the generated number collides
// with an existing row.
func (r *Repository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var organizerID uuid.UUID
		var status domain.EventStatus
		err := tx.QueryRow(ctx, `
			SELECT organizer_id, status FROM events WHERE id = $1
		`, booking.EventID).Scan(&organizerID, &status)
		if err == pgx.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if organizerID == booking.UserID {
			return domain.ErrOwnEvent
		}

		result, err := tx.Exec(ctx, `
			UPDATE events SET available_tickets = available_tickets - $2
			WHERE id = $1 AND status = 'active' AND available_tickets >= $2
		`, booking.EventID, booking.TicketsCount)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrSoldOut
		}

		if err := insertBookingRow(ctx, tx, booking); err != nil {
			return err
		}

		// pgx.Tx is not safe for concurrent use, so the per-seat inserts
		// stay sequential
		for i := 0; i < booking.TicketsCount; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO tickets (id, ticket_number, booking_id, event_id, user_id, status, purchased_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, uuid.New(), domain.NewTicketNumber(), booking.ID, booking.EventID,
				booking.UserID, domain.TicketActive, booking.BookedAt)
			if err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (id, booking_id, amount, method, status, created_at)
			VALUES ($1, $2, $3, '', $4, $5)
		`, uuid.New(), booking.ID, booking.TotalAmount, domain.PaymentPending, booking.BookedAt)
		return err
	})
}

// insertBookingRow retries with a fresh booking number if the generated one
// collides with an existing row. Each attempt runs under a savepoint: a
// unique violation aborts the enclosing transaction otherwise, which would
// turn every later statement into a 25P02 failure.
func insertBookingRow(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	var err error
	for attempt := 0; attempt < bookingNumberAttempts; attempt++ {
		if _, err = tx.Exec(ctx, `SAVEPOINT booking_number`); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, booking_number, event_id, user_id, tickets_count, total_amount, status, booked_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, booking.ID, booking.BookingNumber, booking.EventID, booking.UserID,
			booking.TicketsCount, booking.TotalAmount, booking.Status, booking.BookedAt)
		if !isUniqueViolation(err, "bookings_number_key") {
			return err
		}
		if _, rbErr := tx.Exec(ctx, `ROLLBACK TO SAVEPOINT booking_number`); rbErr != nil {
			return rbErr
		}
		booking.BookingNumber = domain.NewBookingNumber()
	}
	return err
}

const bookingColumns = `id, booking_number, event_id, user_id, tickets_count, total_amount, status, booked_at`

func (r *Repository) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY booked_at DESC
	`, userID)
}

func (r *Repository) GetBookingByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE booking_number = $1
	`, number).Scan(&b.ID, &b.BookingNumber, &b.EventID, &b.UserID, &b.TicketsCount,
		&b.TotalAmount, &b.Status, &b.BookedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListTicketsByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ticket_number, booking_id, event_id, user_id, status, purchased_at
		FROM tickets WHERE booking_id = $1 ORDER BY ticket_number ASC
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.BookingID, &t.EventID, &t.UserID, &t.Status, &t.PurchasedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *Repository) GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx, `
		SELECT id, booking_id, amount, method, status, created_at
		FROM payments WHERE booking_id = $1
	`, bookingID).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CountBookings(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n)
	return n, err
}

func (r *Repository) RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY booked_at DESC LIMIT $1
	`, limit)
}

func (r *Repository) queryBookings(ctx context.Context, q string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.BookingNumber, &b.EventID, &b.UserID, &b.TicketsCount,
			&b.TotalAmount, &b.Status, &b.BookedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
