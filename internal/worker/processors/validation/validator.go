package validation

import (
	"fmt"

	"ezproduct/internal/events"
	"ezproduct/internal/logger"
	"ezproduct/internal/services/shopify"
)

var knownTypes = map[string]bool{
	events.TypeAppUninstalled:   true,
	events.TypeShopRedact:       true,
	events.TypeProductGenerated: true,
}

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateEvent rejects events the processor must not act on: unknown
// types and shop values that are not a *.myshopify.com domain.
func (v *Validator) ValidateEvent(event events.Event) error {
	if !knownTypes[event.Type] {
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	shop, err := shopify.SanitizeShop(event.Shop)
	if err != nil {
		return err
	}
	if shop != event.Shop {
		return fmt.Errorf("%w: %q is not normalized", shopify.ErrInvalidShop, event.Shop)
	}
	return nil
}
