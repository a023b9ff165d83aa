package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/careercompass/careercompass/internal/config"
)

const (
	TopicRoadmapEvents = "roadmap.events"
)

type RoadmapEventType string

const (
	RoadmapEventTypeCreated         RoadmapEventType = "roadmap.created"
	RoadmapEventTypeDeleted         RoadmapEventType = "roadmap.deleted"
	RoadmapEventTypeProgressUpdated RoadmapEventType = "roadmap.progress_updated"
)

type RoadmapEventPayload struct {
	EventType RoadmapEventType `json:"event_type"`
	RoadmapID int64            `json:"roadmap_id"`
	ActorID   uuid.UUID        `json:"actor_id"`
}

// Publisher is the outbound port usecases publish through.
type Publisher interface {
	PublishRoadmapEvent(ctx context.Context, payload RoadmapEventPayload) error
}

type KafkaProducerClient struct {
	RoadmapEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	roadmapWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicRoadmapEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		RoadmapEventsWriter: roadmapWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishRoadmapEvent(ctx context.Context, payload RoadmapEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", payload.RoadmapID)),
		Value: value,
	}

	if err := c.RoadmapEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write roadmap event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.RoadmapEventsWriter != nil {
		c.RoadmapEventsWriter.Close()
	}
}
