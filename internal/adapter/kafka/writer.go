package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/floodlight-guardian-view/internal/config"
	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/observability"
)

const eventTypeLayerToggle = "layer_toggle"

// Writer publishes layer toggle events to a Kafka topic. Writes are
// asynchronous so a slow or unreachable broker never delays the toggle
// callback; delivery failures are logged and counted.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured layer events topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{metrics: metrics, logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaLayerEventsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   w.completed,
	}
	return w
}

// HandleLayerEvent queues one event for publishing. Its signature matches
// the session tracker's toggle listener.
func (w *Writer) HandleLayerEvent(event domain.LayerEvent) {
	msg, err := serializeToMessage(event)
	if err != nil {
		w.logger.Error("layer event dropped", "session_id", event.SessionID, "error", err)
		w.metrics.LayerEventPublishErrors.Inc()
		return
	}
	// Async writers only fail here once closed.
	if err := w.writer.WriteMessages(context.Background(), msg); err != nil {
		w.logger.Warn("layer event not queued", "session_id", event.SessionID, "error", err)
		w.metrics.LayerEventPublishErrors.Inc()
	}
}

// Close flushes queued events and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) completed(msgs []kafkago.Message, err error) {
	if err != nil {
		w.metrics.LayerEventPublishErrors.Add(float64(len(msgs)))
		w.logger.Warn("layer events not delivered", "count", len(msgs), "error", err)
		return
	}
	w.metrics.LayerEventsPublished.Add(float64(len(msgs)))
}

// serializeToMessage marshals a LayerEvent into a Kafka message keyed by
// session, so one session's toggles stay ordered within a partition.
func serializeToMessage(event domain.LayerEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize layer event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: data,
		Time:  event.At,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventTypeLayerToggle)},
			{Key: "action", Value: []byte(event.Action())},
			{Key: "version", Value: []byte(strconv.FormatUint(event.Version, 10))},
			{Key: "occurred_at", Value: []byte(event.At.Format(time.RFC3339))},
		},
	}, nil
}
