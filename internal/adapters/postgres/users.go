package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lumiclabs/EventHub/internal/domain"
)

func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Role, user.CreatedAt)
	if isUniqueViolation(err, "users_email_key") {
		return domain.ErrEmailTaken
	}
	return err
}

const userColumns = `id, email, password_hash, name, phone, role, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateUserProfile replaces the mutable account fields. Changing the email
// to one held by another account fails with ErrEmailTaken.
func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, name, email, phone string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, phone = $4 WHERE id = $1
	`, id, name, email, phone)
	if isUniqueViolation(err, "users_email_key") {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) UpsertOrganizerProfile(ctx context.Context, p domain.OrganizerProfile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO organizer_profiles (user_id, organization, bio, website)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET organization = $2, bio = $3, website = $4
	`, p.UserID, p.Organization, p.Bio, p.Website)
	return err
}

func (r *Repository) GetOrganizerProfile(ctx context.Context, userID uuid.UUID) (*domain.OrganizerProfile, error) {
	var p domain.OrganizerProfile
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, organization, bio, website, created_at
		FROM organizer_profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Organization, &p.Bio, &p.Website, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func (r *Repository) RecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
