package session

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
	GenerateQR(c *gin.Context)
	RevokeSession(c *gin.Context)
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

// GenerateQR issues a session for an event and returns the URL the
// frontend turns into a QR image.
func (h *handler) GenerateQR(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Invalid generate request body")
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid request", "Please provide eventId and duration")
		return
	}

	organizerID := c.GetString("user_id")

	logrus.WithFields(logrus.Fields{
		"event_id":     req.EventID,
		"duration":     req.Duration,
		"organizer_id": organizerID,
	}).Info("GenerateQR request received")

	session, err := h.service.Issue(ctx, req.EventID, organizerID, req.Duration)
	if err != nil {
		h.handleIssueError(c, req.EventID, err)
		return
	}

	if pubErr := h.publisher.PublishActivity(organizerID, session.ID.Hex(), session.EventID,
		models.ServiceSessionGenerate, models.ActionSessionIssued); pubErr != nil {
		logrus.WithError(pubErr).Warn("Failed to publish session issued activity")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": GenerateResponse{
			QrURL:     h.service.ShareableURL(session),
			ExpiresAt: session.ExpiresAt,
		},
		"message": "QR session generated successfully",
	})
}

// RevokeSession closes a session before its natural expiry.
func (h *handler) RevokeSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	sessionID := c.Param("id")
	if sessionID == "" {
		h.sendErrorResponse(c, http.StatusBadRequest, "Session ID is required", "Please provide a valid session ID")
		return
	}

	organizerID := c.GetString("user_id")

	logrus.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"organizer_id": organizerID,
	}).Info("RevokeSession request received")

	session, err := h.service.Revoke(ctx, sessionID, organizerID)
	if err != nil {
		h.handleRevokeError(c, sessionID, err)
		return
	}

	if pubErr := h.publisher.PublishActivity(organizerID, sessionID, session.EventID,
		models.ServiceSessionRevoke, models.ActionSessionRevoked); pubErr != nil {
		logrus.WithError(pubErr).Warn("Failed to publish session revoked activity")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session revoked successfully",
	})
}

func (h *handler) handleIssueError(c *gin.Context, eventID string, err error) {
	logrus.WithError(err).WithField("event_id", eventID).Error("Failed to issue session")

	switch {
	case errors.Is(err, models.ErrMissingEventID):
		h.sendErrorResponse(c, http.StatusBadRequest, "Event ID is required", "Please provide a valid event ID")
	case errors.Is(err, models.ErrInvalidDuration):
		h.sendErrorResponse(c, http.StatusBadRequest, "Invalid duration", "Duration must be a positive number of minutes")
	default:
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to generate QR session", err.Error())
	}
}

func (h *handler) handleRevokeError(c *gin.Context, sessionID string, err error) {
	logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to revoke session")

	switch {
	case errors.Is(err, models.ErrInvalidParams), errors.Is(err, models.ErrSessionNotFound):
		h.sendErrorResponse(c, http.StatusNotFound, "Session not found", "No session found with the provided ID")
	case errors.Is(err, models.ErrNotSessionOwner):
		h.sendErrorResponse(c, http.StatusForbidden, "Access forbidden", "Only the issuing organizer can revoke this session")
	default:
		h.sendErrorResponse(c, http.StatusInternalServerError, "Failed to revoke session", err.Error())
	}
}

func (h *handler) sendErrorResponse(c *gin.Context, statusCode int, error, message string) {
	c.JSON(statusCode, gin.H{
		"error":   error,
		"success": false,
		"message": message,
	})
}
