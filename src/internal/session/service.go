package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/token"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Issue(ctx context.Context, eventID, organizerID string, durationMinutes int) (*Session, error)
	Revoke(ctx context.Context, sessionID, organizerID string) (*Session, error)
	ShareableURL(session *Session) string
}

// Cache is the slice of the cache service the issuer needs. Declared
// here so the cache package can depend on the Session type without a
// cycle.
type Cache interface {
	CacheSession(ctx context.Context, session *Session) error
	InvalidateSession(ctx context.Context, sessionToken string) error
}

type sessionService struct {
	repository Repository
	generator  token.Generator
	cache      Cache
	cfg        *config.Configuration
}

func NewSessionService(repository Repository, generator token.Generator, cache Cache, cfg *config.Configuration) Service {
	return &sessionService{
		repository: repository,
		generator:  generator,
		cache:      cache,
		cfg:        cfg,
	}
}

// Issue creates a session whose validity window starts now and runs for
// durationMinutes. The token unique index arbitrates generator
// collisions; insertion is retried with a fresh token on a collision.
func (s *sessionService) Issue(ctx context.Context, eventID, organizerID string, durationMinutes int) (*Session, error) {
	if eventID == "" {
		return nil, models.ErrMissingEventID
	}
	if durationMinutes <= 0 {
		return nil, models.ErrInvalidDuration
	}
	if max := s.cfg.Attendance.MaxDurationMinutes; max > 0 && durationMinutes > max {
		return nil, models.ErrInvalidDuration
	}

	attempts := s.cfg.Attendance.TokenRetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		t, err := s.generator.Generate()
		if err != nil {
			logrus.WithError(err).Error("Failed to generate session token")
			return nil, models.ErrSessionCreating
		}

		now := time.Now()
		session := &Session{
			EventID:     eventID,
			OrganizerID: organizerID,
			Token:       t,
			IssuedAt:    now,
			ExpiresAt:   now.Add(time.Duration(durationMinutes) * time.Minute),
			Revoked:     false,
		}

		err = s.repository.Insert(ctx, session)
		if errors.Is(err, models.ErrDuplicateRecord) {
			logrus.WithField("attempt", attempt).Warn("Session token collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}

		if cacheErr := s.cache.CacheSession(ctx, session); cacheErr != nil {
			logrus.WithError(cacheErr).Warn("Failed to cache issued session")
		}

		logrus.WithFields(logrus.Fields{
			"session_id":   session.ID.Hex(),
			"event_id":     eventID,
			"organizer_id": organizerID,
			"expires_at":   session.ExpiresAt,
		}).Info("Attendance session issued")

		return session, nil
	}

	return nil, models.ErrTokenExhausted
}

// Revoke terminates a session ahead of its expiry. Only the organizer
// who issued the session may revoke it.
func (s *sessionService) Revoke(ctx context.Context, sessionID, organizerID string) (*Session, error) {
	session, err := s.repository.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.OrganizerID != organizerID {
		logrus.WithFields(logrus.Fields{
			"session_id":   sessionID,
			"organizer_id": organizerID,
		}).Warn("Revoke attempt by non-owner")
		return nil, models.ErrNotSessionOwner
	}

	if !session.Revoked {
		if err := s.repository.Revoke(ctx, sessionID); err != nil {
			return nil, err
		}
		session.Revoked = true
	}

	if cacheErr := s.cache.InvalidateSession(ctx, session.Token); cacheErr != nil {
		logrus.WithError(cacheErr).Warn("Failed to invalidate cached session")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"event_id":   session.EventID,
	}).Info("Attendance session revoked")

	return session, nil
}

// ShareableURL derives the reference embedded in the QR image. The
// frontend scanner extracts the token query parameter and posts it back.
func (s *sessionService) ShareableURL(session *Session) string {
	return fmt.Sprintf("%s/scan?token=%s", s.cfg.App.HostLink, session.Token)
}
