package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mindcare/therapist-api/internal/config"
	"github.com/mindcare/therapist-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	TopicProfileEvents = "therapist.profile.events"
)

type ProfileEventType string

const (
	ProfileEventTypeUpdated       ProfileEventType = "profile.updated"
	ProfileEventTypeImageUploaded ProfileEventType = "profile.image.uploaded"
)

type ProfileEventPayload struct {
	EventType     ProfileEventType `json:"event_type"`
	TherapistID   uuid.UUID        `json:"therapist_id"`
	ImagePublicID string           `json:"image_public_id,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
}

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	profileWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.LeastBytes{},
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		logger:              log,
	}, nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal profile event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.TherapistID.String()),
		Value: value,
	}
	if err := c.ProfileEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot publish profile event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}
