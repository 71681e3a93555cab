// Package mongo keeps an append-only audit trail of security-relevant
// actions. It is optional wiring: a nil *AuditLogger is a no-op, so the app
// runs fine without a Mongo deployment.
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/lumiclabs/EventHub/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    uuid.UUID `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogAction(ctx context.Context, action string, userID uuid.UUID, data map[string]interface{}) {
	if a == nil {
		return
	}
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	if _, err := a.coll.InsertOne(ctx, log); err != nil {
		// auditing never fails the request
		a.logger.WithError(err).Error("failed to insert audit log")
	}
}

func (a *AuditLogger) LogRegistration(ctx context.Context, user domain.User) {
	a.LogAction(ctx, "user.registered", user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role.String(),
	})
}

func (a *AuditLogger) LogBooking(ctx context.Context, booking domain.Booking) {
	a.LogAction(ctx, "booking.created", booking.UserID, map[string]interface{}{
		"booking_number": booking.BookingNumber,
		"event_id":       booking.EventID,
		"tickets_count":  booking.TicketsCount,
		"total_amount":   booking.TotalAmount,
	})
}

func (a *AuditLogger) LogEventDeleted(ctx context.Context, organizerID, eventID uuid.UUID) {
	a.LogAction(ctx, "event.deleted", organizerID, map[string]interface{}{
		"event_id": eventID,
	})
}

func (a *AuditLogger) LogAdminLogin(ctx context.Context, userID uuid.UUID) {
	a.LogAction(ctx, "admin.login", userID, nil)
}
