package attendance

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is durable proof that a student was marked present at an
// event. At most one record exists per (event, student) pair; records
// are immutable once written.
type Record struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID   string             `json:"eventId" bson:"event_id"`
	StudentID string             `json:"studentId" bson:"student_id"`
	SessionID primitive.ObjectID `json:"sessionId" bson:"session_id"`
	MarkedAt  time.Time          `json:"markedAt" bson:"marked_at"`
}

// MarkRequest carries the token extracted from a scanned QR URL.
type MarkRequest struct {
	Token string `json:"token" binding:"required"`
}

// EventRecordsResponse is the organizer view of marked attendance for
// one event.
type EventRecordsResponse struct {
	EventID string    `json:"eventId"`
	Records []*Record `json:"records"`
	Total   int64     `json:"total"`
}
