package favourites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"github.com/samvad-hq/samvad-breed-browser/pkg/publishers"
)

// ErrMissingImageID is returned when a toggle is requested without an image.
var ErrMissingImageID = errors.New("image id is required")

// API is the favourites subset of the cat API.
type API interface {
	AddFavourite(ctx context.Context, imageID string) error
	RemoveFavourite(ctx context.Context, imageID string) error
}

// EventPublisher receives an event for every favourite that changed.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Toggle flips the favourite state of images.
type Toggle struct {
	api    API
	events EventPublisher
	subID  string
	log    logger.Logger
}

// Option configures a Toggle.
type Option func(*Toggle)

// WithEvents publishes change events through events.
func WithEvents(events EventPublisher) Option {
	return func(t *Toggle) { t.events = events }
}

// WithSubID tags published events with the caller's sub id.
func WithSubID(subID string) Option {
	return func(t *Toggle) { t.subID = subID }
}

// NewToggle builds a toggle backed by api.
func NewToggle(api API, log logger.Logger, opts ...Option) (*Toggle, error) {
	if api == nil {
		return nil, fmt.Errorf("favourites api must not be nil")
	}
	t := &Toggle{api: api, log: logger.Ensure(log)}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Toggle adds imageID to favourites when current is false and removes it
// otherwise. It returns the new state on success and current on failure.
func (t *Toggle) Toggle(ctx context.Context, imageID string, current bool) (bool, error) {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return current, ErrMissingImageID
	}

	action := publishers.ActionFavouriteAdded
	call := t.api.AddFavourite
	if current {
		action = publishers.ActionFavouriteRemoved
		call = t.api.RemoveFavourite
	}

	if err := call(ctx, imageID); err != nil {
		t.log.ErrorObj("favourite toggle failed", "favourite_error", map[string]any{
			"image_id": imageID,
			"action":   action,
			"error":    err.Error(),
		})
		return current, fmt.Errorf("toggle favourite %s: %w", imageID, err)
	}

	next := !current
	t.log.InfoObj("favourite toggled", "favourite_state", map[string]any{
		"image_id":  imageID,
		"favourite": next,
	})
	t.publish(ctx, publishers.NewEvent(action, imageID, t.subID))
	return next, nil
}

func (t *Toggle) publish(ctx context.Context, evt publishers.Event) {
	if t.events == nil {
		return
	}
	delivered, err := t.events.Publish(ctx, evt)
	if err != nil {
		t.log.WarnObj("favourite event delivery incomplete", "favourite_event_error", map[string]any{
			"image_id":  evt.ImageID,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}
