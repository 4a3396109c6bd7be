package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"google.golang.org/api/option"
)

// pubsubPublisher publishes favourite events to a Pub/Sub topic and waits
// for the server to acknowledge each one.
type pubsubPublisher struct {
	sink
	client *pubsub.Client
	topic  *pubsub.Topic
}

func newPubSubPublisher(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if err := cfg.PubSub.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}
	if cfg.PubSub.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.PubSub.Endpoint))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &pubsubPublisher{
		sink:   newSink(cfg, log),
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
	}, nil
}

func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	serverID, err := p.topic.Publish(ctx, &pubsub.Message{
		Data:       body,
		Attributes: evt.attributes(),
	}).Get(ctx)
	if err != nil {
		p.failed(evt, err)
		return fmt.Errorf("publish %s to pubsub: %w", evt.Action, err)
	}
	p.delivered(evt, serverID)
	return nil
}

// Close flushes pending messages and releases the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
