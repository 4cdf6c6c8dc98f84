package notify

import (
	"context"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"time"
)

// LogSink writes every event to the structured log.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Handle(e Event) {
	args := []any{
		"event_id", e.ID,
		"kind", string(e.Kind),
		"source", e.Source,
	}
	if e.Message != "" {
		args = append(args, "message", e.Message)
	}
	if e.State != "" {
		args = append(args, "state", e.State)
	}
	if e.HotelID != "" {
		args = append(args, "hotel_id", e.HotelID)
	}
	if e.BookingID != "" {
		args = append(args, "booking_id", e.BookingID)
	}
	if len(e.Keys) > 0 {
		args = append(args, "keys", e.Keys)
	}

	if e.Level == LevelError {
		s.log.Warn("event", args...)
		return
	}
	s.log.Info("event", args...)
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSink exports events as JSON records. Events about a hotel share its
// partition key so they stay ordered per hotel.
type KafkaSink struct {
	producer publisher
	log      *logger.Logger
	timeout  time.Duration
}

func NewKafkaSink(producer publisher, log *logger.Logger) *KafkaSink {
	if log == nil {
		log = logger.Discard()
	}
	return &KafkaSink{producer: producer, log: log, timeout: 5 * time.Second}
}

func (s *KafkaSink) Handle(e Event) {
	key := e.HotelID
	if key == "" {
		key = e.ID
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(e).
		WithEventID(e.ID).
		WithEventType(string(e.Kind)).
		WithSource(e.Source).
		WithTimestamp(e.At).
		Build()
	if err != nil {
		s.log.Error("failed to build event message", "event_id", e.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.log.Error("failed to export event", "event_id", e.ID, "kind", string(e.Kind), "error", err)
	}
}
