package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Service keeps issued sessions keyed by token so the mark path can
// skip MongoDB for hot sessions. Entries expire with the session, so a
// hit is at worst as stale as a revocation that raced the mark.
type Service interface {
	GetSessionByToken(ctx context.Context, sessionToken string) (*session.Session, error)
	CacheSession(ctx context.Context, session *session.Session) error
	InvalidateSession(ctx context.Context, sessionToken string) error
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

func (c *cacheService) key(sessionToken string) string {
	return c.cfg.SessionKeyPrefix + sessionToken
}

func (c *cacheService) GetSessionByToken(ctx context.Context, sessionToken string) (*session.Session, error) {
	data, err := c.client.Get(ctx, c.key(sessionToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("session_id", sess.ID.Hex()).Debug("Session retrieved from cache")
	return &sess, nil
}

func (c *cacheService) CacheSession(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sess.ID.Hex()).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	expiration := time.Until(sess.ExpiresAt)
	if expiration <= 0 {
		logrus.WithField("session_id", sess.ID.Hex()).Warn("Session already expired, not caching")
		return nil
	}

	err = c.client.Set(ctx, c.key(sess.Token), data, expiration).Err()
	if err != nil {
		logrus.WithError(err).WithField("session_id", sess.ID.Hex()).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", sess.ID.Hex()).Debug("Session cached successfully")
	return nil
}

func (c *cacheService) InvalidateSession(ctx context.Context, sessionToken string) error {
	if err := c.client.Del(ctx, c.key(sessionToken)).Err(); err != nil {
		logrus.WithError(err).Error("Failed to delete session from cache")
		return models.ErrRedisDelete
	}
	return nil
}
