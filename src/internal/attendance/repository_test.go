package attendance_test

import (
	"context"
	"testing"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/attendance"
	"campus-attendance-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newRepo(mt *mtest.T) attendance.Repository {
	return attendance.NewAttendanceRepository(&clients.MongoDB{Database: mt.DB}, "attendance_records")
}

func TestAttendanceInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		record := &attendance.Record{
			EventID:   "event-1",
			StudentID: "student-1",
			SessionID: primitive.NewObjectID(),
			MarkedAt:  time.Now(),
		}

		err := repo.Insert(context.Background(), record)

		assert.NoError(mt, err)
		assert.False(mt, record.ID.IsZero())
	})

	mt.Run("duplicate pair maps to duplicate attendance", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: campus_events.attendance_records index: event_id_1_student_id_1",
		}))

		err := repo.Insert(context.Background(), &attendance.Record{
			EventID:   "event-1",
			StudentID: "student-1",
		})

		assert.ErrorIs(mt, err, models.ErrDuplicateAttendance)
	})

	mt.Run("insert command error maps to store error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))

		err := repo.Insert(context.Background(), &attendance.Record{})

		assert.ErrorIs(mt, err, models.ErrDatabaseInsert)
	})
}

func TestAttendanceListByEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)

		first := mtest.CreateCursorResponse(1, "campus_events.attendance_records", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "event_id", Value: "event-1"},
			{Key: "student_id", Value: "student-1"},
		})
		second := mtest.CreateCursorResponse(1, "campus_events.attendance_records", mtest.NextBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "event_id", Value: "event-1"},
			{Key: "student_id", Value: "student-2"},
		})
		end := mtest.CreateCursorResponse(0, "campus_events.attendance_records", mtest.NextBatch)
		mt.AddMockResponses(first, second, end)

		records, err := repo.ListByEvent(context.Background(), "event-1")

		assert.NoError(mt, err)
		assert.Len(mt, records, 2)
		assert.Equal(mt, "student-1", records[0].StudentID)
		assert.Equal(mt, "student-2", records[1].StudentID)
	})

	mt.Run("find error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))

		records, err := repo.ListByEvent(context.Background(), "event-1")

		assert.ErrorIs(mt, err, models.ErrDatabaseQuery)
		assert.Nil(mt, records)
	})
}

func TestAttendanceCountByEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "campus_events.attendance_records", mtest.FirstBatch, bson.D{
			{Key: "n", Value: 2},
		}))

		count, err := repo.CountByEvent(context.Background(), "event-1")

		assert.NoError(mt, err)
		assert.Equal(mt, int64(2), count)
	})

	mt.Run("count error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))

		count, err := repo.CountByEvent(context.Background(), "event-1")

		assert.ErrorIs(mt, err, models.ErrDatabaseQuery)
		assert.Zero(mt, count)
	})
}
