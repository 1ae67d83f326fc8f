// Package kafka publishes overall heatmap snapshots for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/parkwise-risk-service/internal/config"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// ScopeOverall labels snapshots of the unfiltered heatmap.
const ScopeOverall = "overall"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// SnapshotWriter produces one message per heatmap entry to the snapshot topic.
// It implements service.SnapshotPublisher.
type SnapshotWriter struct {
	writer messageWriter
	logger *slog.Logger
}

// NewSnapshotWriter creates a Kafka producer for the configured snapshot topic.
func NewSnapshotWriter(cfg *config.Config, logger *slog.Logger) *SnapshotWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &SnapshotWriter{writer: w, logger: logger}
}

// PublishSnapshot writes entries in a single WriteMessages call. Every
// message in one snapshot shares a snapshot_id header.
func (w *SnapshotWriter) PublishSnapshot(ctx context.Context, entries []domain.HeatmapEntry) error {
	if len(entries) == 0 {
		return nil
	}
	snapshotID := uuid.NewString()
	generatedAt := domain.Now().UTC()

	msgs := make([]kafkago.Message, len(entries))
	for i := range entries {
		msg, err := serializeToMessage(entries[i], snapshotID, generatedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snapshotID, err)
	}
	w.logger.Info("heatmap snapshot published", "snapshot_id", snapshotID, "entries", len(entries))
	return nil
}

func (w *SnapshotWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a HeatmapEntry into a Kafka message keyed by location.
func serializeToMessage(entry domain.HeatmapEntry, snapshotID string, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize heatmap entry: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(entry.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "scope", Value: []byte(ScopeOverall)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
			{Key: "snapshot_id", Value: []byte(snapshotID)},
		},
	}, nil
}
