package session_test

import (
	"context"
	"testing"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/session"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newRepo(mt *mtest.T) session.Repository {
	return session.NewSessionRepository(&clients.MongoDB{Database: mt.DB}, "attendance_sessions")
}

func TestSessionInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		sess := &session.Session{
			EventID:     "event-1",
			OrganizerID: "org-1",
			Token:       "feedface",
			IssuedAt:    time.Now(),
			ExpiresAt:   time.Now().Add(10 * time.Minute),
		}

		err := repo.Insert(context.Background(), sess)

		assert.NoError(mt, err)
		assert.False(mt, sess.ID.IsZero())
	})

	mt.Run("token collision maps to duplicate record", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: campus_events.attendance_sessions index: token_1",
		}))

		err := repo.Insert(context.Background(), &session.Session{Token: "feedface"})

		assert.ErrorIs(mt, err, models.ErrDuplicateRecord)
	})

	mt.Run("insert command error maps to store error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))

		err := repo.Insert(context.Background(), &session.Session{Token: "feedface"})

		assert.ErrorIs(mt, err, models.ErrDatabaseInsert)
	})
}

func TestSessionFindByToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "campus_events.attendance_sessions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "event_id", Value: "event-1"},
			{Key: "organizer_id", Value: "org-1"},
			{Key: "token", Value: "feedface"},
			{Key: "expires_at", Value: primitive.NewDateTimeFromTime(time.Now().Add(5 * time.Minute))},
			{Key: "revoked", Value: false},
		}))

		sess, err := repo.FindByToken(context.Background(), "feedface")

		assert.NoError(mt, err)
		assert.Equal(mt, id, sess.ID)
		assert.Equal(mt, "event-1", sess.EventID)
		assert.False(mt, sess.Revoked)
	})

	mt.Run("unknown token", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "campus_events.attendance_sessions", mtest.FirstBatch))

		sess, err := repo.FindByToken(context.Background(), "nope")

		assert.ErrorIs(mt, err, models.ErrSessionNotFound)
		assert.Nil(mt, sess)
	})

	mt.Run("query error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))

		sess, err := repo.FindByToken(context.Background(), "feedface")

		assert.ErrorIs(mt, err, models.ErrDatabaseQuery)
		assert.Nil(mt, sess)
	})
}

func TestSessionRevoke(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.Revoke(context.Background(), primitive.NewObjectID().Hex())

		assert.NoError(mt, err)
	})

	mt.Run("unknown session", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Revoke(context.Background(), primitive.NewObjectID().Hex())

		assert.ErrorIs(mt, err, models.ErrSessionNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := newRepo(mt)

		err := repo.Revoke(context.Background(), "not-an-object-id")

		assert.ErrorIs(mt, err, models.ErrInvalidParams)
	})
}
