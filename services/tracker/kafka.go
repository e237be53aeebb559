package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

// ChangeEvent announces a mutation of tenant, room or device data
type ChangeEvent struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	RoomID     *uuid.UUID `json:"room_id,omitempty"`
	Entity     string     `json:"entity"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Action     string     `json:"action"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Name is the event type, e.g. "device.created"
func (e ChangeEvent) Name() string {
	return e.Entity + "." + e.Action
}

// ChangePublisher hands change events to the broker without blocking the request
type ChangePublisher interface {
	Publish(event ChangeEvent)
	Close() error
}

type eventRecorder interface {
	RecordChangeEvent(action, result string)
}

type noopRecorder struct{}

func (noopRecorder) RecordChangeEvent(string, string) {}

// noopPublisher is used when no broker is configured
type noopPublisher struct{}

func (noopPublisher) Publish(ChangeEvent) {}
func (noopPublisher) Close() error        { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	resultPublished = "published"
	resultFailed    = "failed"
	resultDropped   = "dropped"
	resultSkipped   = "skipped"
)

// KafkaProducer publishes change events with a worker pool fed by a
// buffered channel. A full queue drops the event.
type KafkaProducer struct {
	writer      messageWriter
	topic       string
	events      chan ChangeEvent
	workerCount int
	breaker     *utils.CircuitBreaker
	recorder    eventRecorder
	wg          sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewKafkaProducer creates a producer writing to topic on broker
func NewKafkaProducer(broker, topic string, recorder eventRecorder) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		BatchSize:              100,
		AllowAutoTopicCreation: true,
	}
	return newKafkaProducer(writer, topic, 4, 1000, recorder)
}

func newKafkaProducer(writer messageWriter, topic string, workers, buffer int, recorder eventRecorder) *KafkaProducer {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	kp := &KafkaProducer{
		writer:      writer,
		topic:       topic,
		events:      make(chan ChangeEvent, buffer),
		workerCount: workers,
		breaker:     utils.NewCircuitBreaker("kafka-"+topic, 5, 30*time.Second),
		recorder:    recorder,
	}

	for i := 0; i < kp.workerCount; i++ {
		kp.wg.Add(1)
		go kp.worker(i)
	}
	logrus.Infof("[Kafka] Started %d change event workers for topic %s", kp.workerCount, topic)

	return kp
}

func (kp *KafkaProducer) worker(id int) {
	defer kp.wg.Done()

	for event := range kp.events {
		err := kp.breaker.Call(func() error {
			return kp.send(event)
		})
		switch {
		case err == nil:
			kp.recorder.RecordChangeEvent(event.Name(), resultPublished)
		case errors.Is(err, utils.ErrCircuitOpen), errors.Is(err, utils.ErrTooManyRequests):
			kp.recorder.RecordChangeEvent(event.Name(), resultSkipped)
		default:
			kp.recorder.RecordChangeEvent(event.Name(), resultFailed)
			logrus.WithFields(logrus.Fields{
				"worker": id,
				"event":  event.Name(),
			}).WithError(err).Warn("[Kafka] Failed to publish change event")
		}
	}
}

// Publish queues an event. It never blocks; events that do not fit are dropped.
func (kp *KafkaProducer) Publish(event ChangeEvent) {
	kp.mu.RLock()
	defer kp.mu.RUnlock()

	if kp.closed {
		kp.recorder.RecordChangeEvent(event.Name(), resultDropped)
		return
	}

	select {
	case kp.events <- event:
	default:
		kp.recorder.RecordChangeEvent(event.Name(), resultDropped)
		logrus.WithField("event", event.Name()).Warn("[Kafka] Change event queue full, event dropped")
	}
}

func (kp *KafkaProducer) send(event ChangeEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	msg := kafka.Message{
		Topic: kp.topic,
		Key:   []byte(event.TenantID.String()),
		Value: message,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Name())},
			{Key: "tenant_id", Value: []byte(event.TenantID.String())},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write change event to Kafka: %w", err)
	}
	return nil
}

// Close stops accepting events, lets the workers drain the queue and
// closes the writer
func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	if kp.closed {
		kp.mu.Unlock()
		return nil
	}
	kp.closed = true
	close(kp.events)
	kp.mu.Unlock()

	kp.wg.Wait()

	if err := kp.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	logrus.Info("[Kafka] Change event producer stopped")
	return nil
}
