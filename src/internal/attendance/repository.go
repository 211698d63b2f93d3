package attendance

import (
	"context"

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
	Insert(ctx context.Context, record *Record) error
	ListByEvent(ctx context.Context, eventID string) ([]*Record, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

func NewAttendanceRepository(db *clients.MongoDB, collectionName string) Repository {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

// EnsureIndexes creates the unique (event_id, student_id) index. The
// index is what makes Insert an atomic check-and-insert: under two
// racing writers exactly one insert commits and the other observes a
// duplicate key error.
func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "event_id", Value: 1},
			{Key: "student_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create attendance index")
		return models.ErrDatabaseConnection
	}
	return nil
}

// Insert writes a record, relying on the unique index to reject a
// second record for the same (event, student) pair.
func (r *repository) Insert(ctx context.Context, record *Record) error {
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateAttendance
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_id":   record.EventID,
			"student_id": record.StudentID,
		}).Error("Failed to insert attendance record")
		return models.ErrDatabaseInsert
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID string) ([]*Record, error) {
	filter := bson.M{"event_id": eventID}

	opts := options.Find().SetSort(bson.M{"marked_at": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).WithField("event_id", eventID).Error("Failed to find attendance records")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var records []*Record
	for cursor.Next(ctx) {
		var record Record
		if err := cursor.Decode(&record); err != nil {
			logrus.WithError(err).Error("Failed to decode attendance record")
			continue
		}
		records = append(records, &record)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, models.ErrDatabaseQuery
	}

	return records, nil
}

func (r *repository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		logrus.WithError(err).WithField("event_id", eventID).Error("Failed to count attendance records")
		return 0, models.ErrDatabaseQuery
	}
	return count, nil
}
