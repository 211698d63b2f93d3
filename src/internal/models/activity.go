package models

import "time"

type ActivityMessage struct {
	UserID      string            `json:"user_id"`
	SessionID   string            `json:"session_id,omitempty"`
	EventID     string            `json:"event_id,omitempty"`
	ServiceName string            `json:"service_name"`
	Action      string            `json:"action"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Activity action constants
const (
	ActionSessionIssued    = "session_issued"
	ActionSessionRevoked   = "session_revoked"
	ActionAttendanceMarked = "attendance_marked"
)

// Service name constants
const (
	ServiceSessionGenerate = "attendance.handler.generate"
	ServiceSessionRevoke   = "attendance.handler.revoke"
	ServiceAttendanceMark  = "attendance.handler.mark"
)
