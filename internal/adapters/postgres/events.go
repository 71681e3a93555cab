package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lumiclabs/EventHub/internal/domain"
)

const eventColumns = `id, title, description, starts_at, location, address, image,
	price, capacity, available_tickets, category, organizer_id, status, created_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.Location, &e.Address,
		&e.Image, &e.Price, &e.Capacity, &e.AvailableTickets, &e.Category, &e.OrganizerID,
		&e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) CreateEvent(ctx context.Context, e domain.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, title, description, starts_at, location, address, image,
			price, capacity, available_tickets, category, organizer_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, e.ID, e.Title, e.Description, e.StartsAt, e.Location, e.Address, e.Image,
		e.Price, e.Capacity, e.AvailableTickets, e.Category, e.OrganizerID, e.Status, e.CreatedAt)
	return err
}

func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// EventFilter narrows the public catalog listing. Zero values mean "no filter".
type EventFilter struct {
	Query    string     // case-insensitive substring over title/description
	Category string     // exact match
	Date     *time.Time // calendar-day match on starts_at
}

// SearchEvents lists active events matching the filter, soonest first.
func (r *Repository) SearchEvents(ctx context.Context, f EventFilter) ([]domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE status = 'active'`
	args := []interface{}{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		p := placeholder(len(args))
		q += ` AND (title ILIKE ` + p + ` OR description ILIKE ` + p + `)`
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += ` AND category = ` + placeholder(len(args))
	}
	if f.Date != nil {
		args = append(args, f.Date.Format("2006-01-02"))
		q += ` AND starts_at::date = ` + placeholder(len(args)) + `::date`
	}
	q += ` ORDER BY starts_at ASC`

	return r.queryEvents(ctx, q, args...)
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (r *Repository) ListEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	return r.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC
	`, organizerID)
}

func (r *Repository) queryEvents(ctx context.Context, q string, args ...interface{}) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.Location, &e.Address,
			&e.Image, &e.Price, &e.Capacity, &e.AvailableTickets, &e.Category, &e.OrganizerID,
			&e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEvent replaces the descriptive fields of an event owned by
// organizerID. A capacity change shifts available_tickets by the capacity
// delta, clamped into [0, new capacity], so seats already sold stay sold.
func (r *Repository) UpdateEvent(ctx context.Context, organizerID uuid.UUID, e domain.Event) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var oldCapacity, available int
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `
			SELECT capacity, available_tickets, organizer_id FROM events WHERE id = $1 FOR UPDATE
		`, e.ID).Scan(&oldCapacity, &available, &ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if ownerID != organizerID {
			return domain.ErrForbidden
		}

		adjusted := domain.AdjustAvailability(oldCapacity, e.Capacity, available)

		_, err = tx.Exec(ctx, `
			UPDATE events SET title = $2, description = $3, starts_at = $4, location = $5,
				address = $6, image = $7, price = $8, capacity = $9, available_tickets = $10,
				category = $11
			WHERE id = $1
		`, e.ID, e.Title, e.Description, e.StartsAt, e.Location, e.Address, e.Image,
			e.Price, e.Capacity, adjusted, e.Category)
		return err
	})
}

// DeleteEvent removes an event owned by organizerID; dependent bookings,
// tickets, payments and reviews go with it via ON DELETE CASCADE.
func (r *Repository) DeleteEvent(ctx context.Context, organizerID, eventID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM events WHERE id = $1 AND organizer_id = $2
	`, eventID, organizerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Distinguish a missing event from someone else's event.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrForbidden
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&n)
	return n, err
}

func (r *Repository) RecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	return r.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events ORDER BY created_at DESC LIMIT $1
	`, limit)
}
