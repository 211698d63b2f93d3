package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ActivityPublisher pushes attendance activity messages onto the shared
// campus exchange for downstream consumers (audit, notifications).
type ActivityPublisher struct {
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
	appName string
}

func NewActivityPublisher(cfg *config.Configuration, channel *amqp.Channel) *ActivityPublisher {
	return &ActivityPublisher{
		channel: channel,
		cfg:     &cfg.Queue.RabbitMQ,
		appName: cfg.App.Name,
	}
}

// PublishActivity publishes an activity message to RabbitMQ
func (p *ActivityPublisher) PublishActivity(userID, sessionID, eventID, serviceName, action string) error {
	message := models.ActivityMessage{
		UserID:      userID,
		SessionID:   sessionID,
		EventID:     eventID,
		ServiceName: serviceName,
		Action:      action,
		Metadata:    map[string]string{"service": p.appName},
		Timestamp:   time.Now(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to publish activity message")
		return fmt.Errorf("failed to publish activity message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"session_id":  sessionID,
		"event_id":    eventID,
		"service":     serviceName,
		"action":      action,
		"exchange":    p.cfg.Exchange,
		"routing_key": p.cfg.RoutingKey,
	}).Debug("Activity message published")

	return nil
}
