package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// messageWriter is the subset of kafka.Writer used by the publisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes finished analysis runs to Kafka
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
	logger zerolog.Logger
}

// KafkaPublisherConfig holds Kafka publisher configuration
type KafkaPublisherConfig struct {
	Brokers      []string      // e.g., ["localhost:9092"]
	Topic        string        // e.g., "value_bets"
	WriteTimeout time.Duration // e.g., 10 * time.Second
}

// NewKafkaPublisher creates a new Kafka publisher
func NewKafkaPublisher(config KafkaPublisherConfig, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           config.WriteTimeout,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return newKafkaPublisher(writer, config.Topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		now:    time.Now,
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// PublishRun writes one message for a finished run, keyed by its run ID
func (p *KafkaPublisher) PublishRun(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil {
		return models.InvalidInputf("nil analysis result")
	}

	runID := result.RunID.String()
	msg := models.KafkaAnalysisRunMessage{
		RunID:     runID,
		Timestamp: p.now().UTC(),
		Result:    result,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(runID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write run to %s: %w", p.topic, err)
	}

	p.logger.Info().
		Str("run_id", runID).
		Int("candidates", len(result.Candidates)).
		Bool("outage", result.Outage).
		Msg("published analysis run")

	return nil
}

// Close closes the Kafka writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
