package postgres

import "context"

// schema is applied at startup. Statements are idempotent so restarting the
// service against an existing database is safe.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL CHECK (role IN ('attendee', 'organizer', 'admin')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS organizer_profiles (
	user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	organization TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	starts_at TIMESTAMPTZ NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	price NUMERIC(10,2) NOT NULL DEFAULT 0,
	capacity INT NOT NULL,
	available_tickets INT NOT NULL,
	category TEXT NOT NULL,
	organizer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL CHECK (status IN ('active', 'cancelled')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT events_availability_check CHECK (available_tickets >= 0 AND available_tickets <= capacity)
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	booking_number TEXT NOT NULL,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	tickets_count INT NOT NULL,
	total_amount NUMERIC(10,2) NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'cancelled')),
	booked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT bookings_number_key UNIQUE (booking_number)
);

CREATE TABLE IF NOT EXISTS tickets (
	id UUID PRIMARY KEY,
	ticket_number TEXT NOT NULL,
	booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL CHECK (status IN ('active', 'used', 'cancelled')),
	purchased_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT tickets_number_key UNIQUE (ticket_number)
);

CREATE TABLE IF NOT EXISTS payments (
	id UUID PRIMARY KEY,
	booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	amount NUMERIC(10,2) NOT NULL,
	method TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT payments_booking_key UNIQUE (booking_id)
);

CREATE TABLE IF NOT EXISTS reviews (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS events_status_starts_at_idx ON events (status, starts_at);
CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id);
CREATE INDEX IF NOT EXISTS reviews_event_idx ON reviews (event_id);
`

// Migrate bootstraps the schema.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}
