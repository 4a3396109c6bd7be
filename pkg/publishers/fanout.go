package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

// route pairs a publisher with the favourite actions it subscribes to.
type route struct {
	pub     Publisher
	actions []string
}

// accepts reports whether the route wants events for action. No actions means all.
func (r route) accepts(action string) bool {
	if len(r.actions) == 0 {
		return true
	}
	for _, a := range r.actions {
		if a == action {
			return true
		}
	}
	return false
}

// Fanout dispatches favourite events to every sink subscribed to the action.
type Fanout struct {
	routes []route
}

// NewFanout subscribes each publisher to every favourite action.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		f.add(p, nil)
	}
	return f
}

// Build constructs publishers for sinks and routes events to them by action.
// Publishers built before a failure are closed.
func Build(ctx context.Context, sinks []SinkConfig, log logger.Logger) (*Fanout, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)

	f := &Fanout{}
	for _, cfg := range sinks {
		build, ok := builders[cfg.Type]
		if !ok {
			_ = f.Close()
			return nil, fmt.Errorf("sink %q: unsupported type %q", cfg.ID, cfg.Type)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		f.add(pub, cfg.Actions)
	}
	return f, nil
}

type builder func(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error)

var builders = map[string]builder{
	TypeSQS:    newSQSPublisher,
	TypeSNS:    newSNSPublisher,
	TypePubSub: newPubSubPublisher,
	TypeHTTP:   newHTTPPublisher,
}

func (f *Fanout) add(p Publisher, actions []string) {
	if p == nil {
		return
	}
	f.routes = append(f.routes, route{pub: p, actions: actions})
}

// Publish forwards the event to the sinks subscribed to its action and
// returns how many accepted it.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, r := range f.routes {
		if !r.accepts(evt.Action) {
			continue
		}
		if err := r.pub.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s sink %q: %w", r.pub.Type(), r.pub.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of routed sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.routes)
}

// Close releases clients held by sinks that own one.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, r := range f.routes {
		c, ok := r.pub.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink %q: %w", r.pub.Type(), r.pub.ID(), err))
		}
	}
	return errors.Join(errs...)
}
