package publishers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Favourite actions carried by events.
const (
	ActionFavouriteAdded   = "favourite_added"
	ActionFavouriteRemoved = "favourite_removed"
)

// Event is the payload published downstream after a favourite changes.
type Event struct {
	Action     string    `json:"action"`
	ImageID    string    `json:"image_id"`
	SubID      string    `json:"sub_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event for the given image.
func NewEvent(action, imageID, subID string) Event {
	return Event{
		Action:     action,
		ImageID:    imageID,
		SubID:      subID,
		OccurredAt: time.Now().UTC(),
	}
}

// knownAction reports whether action is one of the favourite actions.
func knownAction(action string) bool {
	switch action {
	case ActionFavouriteAdded, ActionFavouriteRemoved:
		return true
	}
	return false
}

func (e Event) payload() ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Action, err)
	}
	return raw, nil
}

// attributes are the non-empty routing attributes shared by queue and topic sinks.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"action":   e.Action,
		"image_id": e.ImageID,
		"sub_id":   e.SubID,
	} {
		if strings.TrimSpace(v) != "" {
			attrs[k] = v
		}
	}
	return attrs
}

// dedupKey identifies one favourite change for sinks that deduplicate.
func (e Event) dedupKey() string {
	return fmt.Sprintf("%s:%s:%d", e.Action, e.ImageID, e.OccurredAt.UnixNano())
}
