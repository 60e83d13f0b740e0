package shopify

import (
	"context"
	"errors"
	"strings"
)

// seedInventory activates every variant's inventory item at the shop's
// stock location and sets a starting on-hand quantity.
func (s *Syncer) seedInventory(ctx context.Context, client AdminAPI, variants []ProductVariant, out *Outcome) error {
	if len(variants) == 0 {
		return nil
	}

	var payload locationsPayload
	if err := s.mutate(ctx, client, "locations", locationsQuery, nil, &payload); err != nil {
		return s.warn(out, stepInventory, err)
	}
	location, ok := pickLocation(payload.Locations.Nodes)
	if !ok {
		return s.warn(out, stepInventory, errors.New("no stock location available"))
	}

	for _, v := range variants {
		itemID := v.InventoryItemID()
		if itemID == "" {
			if err := s.warn(out, stepInventory, errors.New("variant "+v.ID+" has no inventory item")); err != nil {
				return err
			}
			continue
		}
		if err := s.activateInventory(ctx, client, itemID, location.ID); err != nil {
			if err := s.warn(out, stepInventory, err); err != nil {
				return err
			}
			continue
		}
		if err := s.setOnHand(ctx, client, itemID, location.ID, s.stock()); err != nil {
			if err := s.warn(out, stepInventory, err); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickLocation prefers the shop's own fulfilling location, then any active
// one, then whatever comes first.
func pickLocation(locations []Location) (Location, bool) {
	if len(locations) == 0 {
		return Location{}, false
	}
	for _, l := range locations {
		if l.IsActive && l.FulfillsOnlineOrders && l.FulfillmentService == nil {
			return l, true
		}
	}
	for _, l := range locations {
		if l.IsActive {
			return l, true
		}
	}
	return locations[0], true
}

func (s *Syncer) activateInventory(ctx context.Context, client AdminAPI, itemID, locationID string) error {
	var payload inventoryActivatePayload
	err := s.mutate(ctx, client, "inventoryActivate", inventoryActivateMutation, map[string]any{
		"inventoryItemId": itemID,
		"locationId":      locationID,
	}, &payload)
	if err != nil {
		return err
	}

	var remaining []UserError
	for _, ue := range payload.InventoryActivate.UserErrors {
		if strings.Contains(strings.ToLower(ue.Message), "already") {
			continue
		}
		remaining = append(remaining, ue)
	}
	return userErrorsErr("inventoryActivate", remaining)
}

func (s *Syncer) setOnHand(ctx context.Context, client AdminAPI, itemID, locationID string, quantity int) error {
	var payload inventorySetOnHandPayload
	err := s.mutate(ctx, client, "inventorySetOnHandQuantities", inventorySetOnHandMutation, map[string]any{
		"input": map[string]any{
			"reason": "correction",
			"setQuantities": []any{
				map[string]any{
					"inventoryItemId": itemID,
					"locationId":      locationID,
					"quantity":        quantity,
				},
			},
		},
	}, &payload)
	if err != nil {
		return err
	}
	return userErrorsErr("inventorySetOnHandQuantities", payload.InventorySetOnHandQuantities.UserErrors)
}
