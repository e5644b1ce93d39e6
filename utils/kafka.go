package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var kafkaWriter *kafka.Writer

// PlatformEvent is the envelope every message on the platform topic uses
type PlatformEvent struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

func kafkaBrokers() []string {
	brokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")
	if len(brokers) == 1 && brokers[0] == "" {
		brokers = []string{"localhost:9092"}
	}
	return brokers
}

func kafkaTopic() string {
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "fire.platform.events"
	}
	return topic
}

// InitializeKafka sets up the shared writer for the platform events topic
func InitializeKafka() {
	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers()...),
		Topic:        kafkaTopic(),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	log.Println("✅ Kafka writer initialized:", kafkaTopic())
}

// PublishPlatformEvent emits a typed event onto the platform topic.
// Failures are logged, not propagated — notifications are best-effort.
func PublishPlatformEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	if kafkaWriter == nil {
		return
	}

	evt := PlatformEvent{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	value, err := json.Marshal(evt)
	if err != nil {
		log.Printf("❌ Kafka marshal failed for %s: %v", eventType, err)
		return
	}

	err = kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: value,
	})
	if err != nil {
		log.Printf("⚠️ Kafka publish failed for %s: %v", eventType, err)
	}
}

// NewPlatformReader builds a consumer-group reader over the platform topic
func NewPlatformReader(groupID string) *kafka.Reader {
	if groupID == "" {
		groupID = "fire-backend"
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        kafkaBrokers(),
		GroupID:        groupID,
		Topic:          kafkaTopic(),
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// CloseKafka flushes and closes the shared writer
func CloseKafka() {
	if kafkaWriter != nil {
		_ = kafkaWriter.Close()
	}
}
