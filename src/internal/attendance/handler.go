package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	MarkAttendance(c *gin.Context)
	GetEventRecords(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	service   Service
	publisher *clients.ActivityPublisher
}

func NewHandler(cfg *config.Configuration, service Service, publisher *clients.ActivityPublisher) Handler {
	return &handler{
		config:    cfg,
		service:   service,
		publisher: publisher,
	}
}

// MarkAttendance records the authenticated student as present for the
// event behind the scanned token.
func (h *handler) MarkAttendance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Invalid mark request body")
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid request", "Please provide a token")
		return
	}

	studentID := c.GetString("user_id")

	logrus.WithField("student_id", studentID).Info("MarkAttendance request received")

	record, err := h.service.Mark(ctx, req.Token, studentID)
	if err != nil {
		h.handleMarkError(c, studentID, err)
		return
	}

	if pubErr := h.publisher.PublishActivity(studentID, record.SessionID.Hex(), record.EventID,
		models.ServiceAttendanceMark, models.ActionAttendanceMarked); pubErr != nil {
		logrus.WithError(pubErr).Warn("Failed to publish attendance marked activity")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":   "marked",
			"eventId":  record.EventID,
			"markedAt": record.MarkedAt,
		},
		"message": "Attendance marked successfully",
	})
}

// GetEventRecords returns the marked attendance for an event.
func (h *handler) GetEventRecords(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	eventID := c.Param("eventId")
	if eventID == "" {
		h.sendErrorResponse(c, http.StatusBadRequest, "Event ID is required", "Please provide a valid event ID")
		return
	}

	response, err := h.service.EventRecords(ctx, eventID)
	if err != nil {
		logrus.WithError(err).WithField("event_id", eventID).Error("Failed to get event records")
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve attendance records", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
		"message": "Attendance records retrieved successfully",
	})
}

func (h *handler) handleMarkError(c *gin.Context, studentID string, err error) {
	logrus.WithError(err).WithField("student_id", studentID).Warn("Failed to mark attendance")

	switch {
	case errors.Is(err, models.ErrInvalidParams), errors.Is(err, models.ErrSessionNotFound):
		// Unknown tokens get the same generic answer as malformed input
		// so callers cannot probe which tokens exist.
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid QR code", "The scanned QR code is not valid")
	case errors.Is(err, models.ErrSessionExpired), errors.Is(err, models.ErrSessionRevoked):
		h.sendErrorResponse(c, http.StatusGone, "QR expired", "This QR code is no longer active, ask for a fresh one")
	case errors.Is(err, models.ErrDuplicateAttendance):
		h.sendErrorResponse(c, http.StatusConflict, "Already marked", "Attendance was already marked for this event")
	default:
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to mark attendance", err.Error())
	}
}

func (h *handler) sendErrorResponse(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"error":   error,
		"success": false,
		"message": message,
	})
}
