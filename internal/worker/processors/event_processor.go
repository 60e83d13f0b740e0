package processors

import (
	"context"
	"fmt"

	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/store"
	"ezproduct/internal/worker/processors/validation"
)

type EventProcessor struct {
	sessions  *store.SessionStore
	validator *validation.Validator
	logger    *logger.Logger
}

func NewEventProcessor(sessions *store.SessionStore, logger *logger.Logger) *EventProcessor {
	log := logger.Component("events")
	return &EventProcessor{
		sessions:  sessions,
		validator: validation.New(log),
		logger:    log,
	}
}

// Process handles one event:
//   - app.uninstalled and shop.redact remove the shop's generation history,
//     sessions and shop record
//   - product.generated is logged
func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	if err := ep.validator.ValidateEvent(event); err != nil {
		ep.logger.Warn().Err(err).Str("type", event.Type).Msg("dropping invalid event")
		return nil
	}

	log := ep.logger.With().Str("type", event.Type).Str("shop", event.Shop).Logger()

	switch event.Type {
	case events.TypeAppUninstalled, events.TypeShopRedact:
		erased, err := ep.sessions.DeleteByShop(ctx, event.Shop)
		if err != nil {
			return fmt.Errorf("failed to clean up %s: %w", event.Shop, err)
		}
		log.Info().Int64("history_rows", erased).Msg("shop data removed")

	case events.TypeProductGenerated:
		log.Info().Interface("data", event.Data).Msg("product generated")
	}
	return nil
}
