package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/observability"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// KafkaProducer lazily manages writers per topic.
type KafkaProducer struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaProducer creates a KafkaProducer.
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// WriteMessages writes messages to the given topic, creating a writer if necessary.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	writer := p.writerForTopic(topic)
	return writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

// Publisher turns recorded readings into reading.recorded Kafka messages.
type Publisher struct {
	writer messageWriter
	topic  string
	newID  func() string
}

// NewPublisher returns a Publisher writing to topic.
func NewPublisher(writer messageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic, newID: uuid.NewString}
}

// PublishReading implements domain.EventPublisher.
func (p *Publisher) PublishReading(ctx context.Context, rec domain.RecordedReading) error {
	event := ReadingRecorded{
		EventID:    p.newID(),
		Timestamp:  rec.Timestamp.UTC(),
		HeartRate:  rec.HeartRate,
		Status:     string(rec.Status),
		RecordedAt: rec.RecordedAt.UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: body,
		Time:  event.RecordedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeReadingRecorded)},
			{Key: "status", Value: []byte(event.Status)},
		},
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msg); err != nil {
		observability.RecordPublishFailure()
		return err
	}
	return nil
}
