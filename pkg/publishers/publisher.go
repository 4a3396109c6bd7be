package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

// Publisher delivers favourite events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers holding long-lived clients.
type closer interface {
	Close() error
}

// sink carries the identity and logging shared by every publisher type.
type sink struct {
	id  string
	typ string
	log logger.Logger
}

func newSink(cfg SinkConfig, log logger.Logger) sink {
	return sink{id: cfg.ID, typ: cfg.Type, log: logger.Ensure(log)}
}

func (s sink) ID() string   { return s.id }
func (s sink) Type() string { return s.typ }

func (s sink) failed(evt Event, err error) {
	s.log.ErrorObj("favourite sink delivery failed", "favourite_sink_error", map[string]any{
		"sink_id":   s.id,
		"sink_type": s.typ,
		"action":    evt.Action,
		"image_id":  evt.ImageID,
		"error":     err.Error(),
	})
}

func (s sink) delivered(evt Event, messageID string) {
	meta := map[string]any{
		"sink_id":   s.id,
		"sink_type": s.typ,
		"action":    evt.Action,
		"image_id":  evt.ImageID,
	}
	if messageID != "" {
		meta["message_id"] = messageID
	}
	s.log.DebugObj("favourite sink delivered event", "favourite_sink_delivery", meta)
}
