package attendance

import (
	"context"
	"time"

	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/session"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Mark(ctx context.Context, token, studentID string) (*Record, error)
	EventRecords(ctx context.Context, eventID string) (*EventRecordsResponse, error)
}

// SessionCache is the slice of the cache service the marker needs.
type SessionCache interface {
	GetSessionByToken(ctx context.Context, sessionToken string) (*session.Session, error)
	CacheSession(ctx context.Context, session *session.Session) error
}

type attendanceService struct {
	repository  Repository
	sessionRepo session.Repository
	cache       SessionCache
}

func NewAttendanceService(repository Repository, sessionRepo session.Repository, cache SessionCache) Service {
	return &attendanceService{
		repository:  repository,
		sessionRepo: sessionRepo,
		cache:       cache,
	}
}

// Mark validates the presented token and appends one attendance record
// for (event, student). The gates run in order: token lookup, expiry,
// revocation, then the insert against the unique (event_id, student_id)
// index. Sessions stay usable by other students until expiry or
// revocation; the per-student uniqueness is the only single-use gate.
func (s *attendanceService) Mark(ctx context.Context, token, studentID string) (*Record, error) {
	if token == "" {
		return nil, models.ErrInvalidParams
	}
	if studentID == "" {
		return nil, models.ErrInvalidParams
	}

	sess, err := s.lookupSession(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sess.IsExpired(now) {
		logrus.WithFields(logrus.Fields{
			"session_id": sess.ID.Hex(),
			"expires_at": sess.ExpiresAt,
		}).Warn("Mark attempt with expired session")
		return nil, models.ErrSessionExpired
	}
	if sess.Revoked {
		logrus.WithField("session_id", sess.ID.Hex()).Warn("Mark attempt with revoked session")
		return nil, models.ErrSessionRevoked
	}

	record := &Record{
		EventID:   sess.EventID,
		StudentID: studentID,
		SessionID: sess.ID,
		MarkedAt:  now,
	}

	if err := s.repository.Insert(ctx, record); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   record.EventID,
		"student_id": studentID,
		"session_id": sess.ID.Hex(),
	}).Info("Attendance marked")

	return record, nil
}

// lookupSession resolves a token to its session, Redis first with a
// MongoDB fallback. Cache failures degrade to the durable store.
func (s *attendanceService) lookupSession(ctx context.Context, token string) (*session.Session, error) {
	cached, err := s.cache.GetSessionByToken(ctx, token)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil {
		logrus.WithError(err).Warn("Session cache lookup failed, falling back to database")
	}

	sess, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.CacheSession(ctx, sess); cacheErr != nil {
		logrus.WithError(cacheErr).Warn("Failed to cache session after lookup")
	}

	return sess, nil
}

func (s *attendanceService) EventRecords(ctx context.Context, eventID string) (*EventRecordsResponse, error) {
	if eventID == "" {
		return nil, models.ErrMissingEventID
	}

	records, err := s.repository.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	total, err := s.repository.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventRecordsResponse{
		EventID: eventID,
		Records: records,
		Total:   total,
	}, nil
}
