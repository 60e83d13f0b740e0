package worker

import (
	"context"
	"errors"
	"time"

	"ezproduct/internal/config"
	"ezproduct/internal/events"
	"ezproduct/internal/logger"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the worker uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Worker struct {
	logger    *logger.Logger
	reader    MessageReader
	processor events.Handler
}

func New(cfg *config.Config, processor events.Handler, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        "ezproduct-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
	return NewWithReader(reader, processor, logger)
}

func NewWithReader(reader MessageReader, processor events.Handler, logger *logger.Logger) *Worker {
	return &Worker{
		logger:    logger.Component("worker"),
		reader:    reader,
		processor: processor,
	}
}

// Run consumes events until ctx is cancelled. A message is committed once it
// is processed or found unparseable; processing errors leave it uncommitted
// so it is redelivered.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Msg("worker started, listening for events")

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			w.logger.Error().Err(err).Msg("failed to read message")
			continue
		}

		event, err := events.Decode(message.Value)
		if err != nil {
			w.logger.Error().Err(err).Int64("offset", message.Offset).Msg("skipping malformed event")
			w.commit(ctx, message)
			continue
		}

		if err := w.processor.Process(ctx, event); err != nil {
			w.logger.Error().Err(err).Str("type", event.Type).Str("shop", event.Shop).Msg("failed to process event")
			continue
		}

		w.commit(ctx, message)
		w.logger.Debug().Str("type", event.Type).Msg("event processed")
	}
}

func (w *Worker) commit(ctx context.Context, message kafka.Message) {
	if err := w.reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
		w.logger.Error().Err(err).Msg("failed to commit message")
	}
}

func (w *Worker) Stop() error {
	w.logger.Info().Msg("stopping worker")
	return w.reader.Close()
}
