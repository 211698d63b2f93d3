package session

import (
	"context"
	"errors"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type repository struct {
	collection *mongo.Collection
}

type Repository interface {
	Insert(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Revoke(ctx context.Context, sessionID string) error
	EnsureIndexes(ctx context.Context) error
}

func NewSessionRepository(db *clients.MongoDB, collectionName string) Repository {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

// EnsureIndexes creates the unique token index. Token uniqueness is
// global across all sessions ever issued; the insert path relies on the
// index rejecting collisions.
func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create session token index")
		return models.ErrDatabaseConnection
	}
	return nil
}

func (r *repository) Insert(ctx context.Context, session *Session) error {
	res, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateRecord
		}
		logrus.WithError(err).WithField("event_id", session.EventID).Error("Failed to insert session")
		return models.ErrDatabaseInsert
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return nil
}

func (r *repository) FindByToken(ctx context.Context, token string) (*Session, error) {
	var session Session
	filter := bson.M{"token": token}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).Error("Failed to get session by token")
		return nil, models.ErrDatabaseQuery
	}

	return &session, nil
}

func (r *repository) FindByID(ctx context.Context, sessionID string) (*Session, error) {
	oid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}

	var session Session
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to get session")
		return nil, models.ErrDatabaseQuery
	}

	return &session, nil
}

// Revoke flips the revoked flag. Revocation is terminal and idempotent;
// revoking an already revoked session is not an error.
func (r *repository) Revoke(ctx context.Context, sessionID string) error {
	oid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return models.ErrInvalidParams
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"revoked": true}},
	)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to revoke session")
		return models.ErrSessionUpdating
	}

	if res.MatchedCount == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}
