package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionRevoked  = errors.New("session revoked")
	ErrSessionCreating = errors.New("error creating session")
	ErrSessionUpdating = errors.New("error updating session")
	ErrNotSessionOwner = errors.New("caller does not own session")
	ErrTokenExhausted  = errors.New("token generation attempts exhausted")
)

var (
	ErrInvalidParams        = errors.New("invalid parameters")
	ErrInvalidDuration      = errors.New("duration must be a positive number of minutes")
	ErrMissingEventID       = errors.New("event id is required")
	ErrDuplicateAttendance  = errors.New("attendance already marked")
	ErrAttendanceNotCreated = errors.New("error creating attendance record")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateRecord    = errors.New("duplicate record")
)
