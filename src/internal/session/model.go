package session

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a time-bounded credential binding an event to an opaque
// token. Sessions are retained for audit and never deleted; the only
// field that changes after creation is the revoked flag.
type Session struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID     string             `json:"eventId" bson:"event_id"`
	OrganizerID string             `json:"organizerId" bson:"organizer_id"`
	Token       string             `json:"-" bson:"token"`
	IssuedAt    time.Time          `json:"issuedAt" bson:"issued_at"`
	ExpiresAt   time.Time          `json:"expiresAt" bson:"expires_at"`
	Revoked     bool               `json:"revoked" bson:"revoked"`
}

// IsExpired reports whether the session validity window has passed at
// the given instant.
func (s *Session) IsExpired(at time.Time) bool {
	return at.After(s.ExpiresAt)
}

// IsUsable reports whether a mark attempt at the given instant should
// pass the session gates.
func (s *Session) IsUsable(at time.Time) bool {
	return !s.Revoked && !s.IsExpired(at)
}

// GenerateRequest is the organizer request for a new QR session.
type GenerateRequest struct {
	EventID  string `json:"eventId" binding:"required"`
	Duration int    `json:"duration"`
}

// GenerateResponse carries the shareable reference handed to the QR
// encoder on the frontend.
type GenerateResponse struct {
	QrURL     string    `json:"qrUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
