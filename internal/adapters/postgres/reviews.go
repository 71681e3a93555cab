package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/domain"
)

func (r *Repository) CreateReview(ctx context.Context, rev domain.Review) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews (id, event_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rev.ID, rev.EventID, rev.UserID, rev.Rating, rev.Comment, rev.CreatedAt)
	return err
}

// ListEventReviews returns reviews for an event, newest first, with the
// author's display name joined in.
func (r *Repository) ListEventReviews(ctx context.Context, eventID uuid.UUID) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.event_id, rv.user_id, u.name, rv.rating, rv.comment, rv.created_at
		FROM reviews rv JOIN users u ON u.id = rv.user_id
		WHERE rv.event_id = $1
		ORDER BY rv.created_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.EventID, &rev.UserID, &rev.Author, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
