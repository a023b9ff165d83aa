package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/careercompass/careercompass/adapters/event"
	"github.com/careercompass/careercompass/adapters/persistence"
	roadmapUC "github.com/careercompass/careercompass/internal/application/usecase/roadmap"
	"github.com/careercompass/careercompass/internal/config"
	"github.com/careercompass/careercompass/pkg/logger"
)

func main() {
	fmt.Println("Starting Career Compass Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// Repositories
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool, appLogger, cfg.App.StrictDecoding)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool, appLogger, cfg.App.StrictDecoding)

	// Worker Use Case
	processEventUC := roadmapUC.NewProcessRoadmapEventUseCase(roadmapRepo, progressRepo, appLogger)

	// Kafka Consumer
	roadmapConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicRoadmapEvents,
		GroupID:  "roadmap-audit-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer roadmapConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicRoadmapEvents)

	ctx := context.Background()
	for {
		msg, err := roadmapConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		log.Printf("Received message from [Topic: %s], [Key: %s]", msg.Topic, string(msg.Key))

		var payload event.RoadmapEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(roadmapConsumer, msg)
			continue
		}

		log.Printf("Processing event: [%s] for RoadmapID: %d", payload.EventType, payload.RoadmapID)

		err = processEventUC.Execute(ctx, payload)
		if err != nil {
			log.Printf("ERROR: Failed to process event for RoadmapID %d: %v", payload.RoadmapID, err)
			continue
		}

		commitMessage(roadmapConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
