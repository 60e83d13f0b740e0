package shopify

import (
	"context"
	"strings"
)

const onlineStoreChannel = "online store"

func (s *Syncer) attachMedia(ctx context.Context, client AdminAPI, t *Transformer, productID, alt string, urls []string, out *Outcome) error {
	media := t.MediaInput(urls, alt)
	if len(media) == 0 {
		return nil
	}

	var payload productCreateMediaPayload
	err := s.mutate(ctx, client, "productCreateMedia", productCreateMediaMutation, map[string]any{
		"productId": productID,
		"media":     media,
	}, &payload)
	if err == nil {
		err = userErrorsErr("productCreateMedia", payload.ProductCreateMedia.MediaUserErrors)
	}
	if err != nil {
		return s.warn(out, stepMedia, err)
	}
	return nil
}

// publish puts the product on the Online Store channel, or on the app's
// current channel when the shop has none.
func (s *Syncer) publish(ctx context.Context, client AdminAPI, productID string, out *Outcome) error {
	var pubs publicationsPayload
	if err := s.mutate(ctx, client, "publications", publicationsQuery, nil, &pubs); err != nil {
		return s.warn(out, stepPublish, err)
	}

	var (
		payload publishPayload
		err     error
	)
	if pub, ok := findPublication(pubs.Publications.Nodes, onlineStoreChannel); ok {
		err = s.mutate(ctx, client, "publishablePublish", publishMutation, map[string]any{
			"id":    productID,
			"input": []any{map[string]any{"publicationId": pub.ID}},
		}, &payload)
	} else {
		err = s.mutate(ctx, client, "publishablePublishToCurrentChannel", publishToCurrentChannelMutation, map[string]any{
			"id": productID,
		}, &payload)
	}
	if err == nil {
		err = userErrorsErr("publish", payload.userErrors())
	}
	if err != nil {
		return s.warn(out, stepPublish, err)
	}
	return nil
}

func findPublication(pubs []Publication, name string) (Publication, bool) {
	for _, p := range pubs {
		if strings.Contains(strings.ToLower(p.Name), name) {
			return p, true
		}
	}
	return Publication{}, false
}
