package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher broadcasts favourite events on a topic. Subscribers can filter
// on the action and image_id message attributes.
type snsPublisher struct {
	sink
	topic  SNSConfig
	client snsAPI
}

func newSNSPublisher(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if err := cfg.SNS.validate(); err != nil {
		return nil, err
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, err
	}
	return &snsPublisher{
		sink:   newSink(cfg, log),
		topic:  *cfg.SNS,
		client: sns.NewFromConfig(awsCfg),
	}, nil
}

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	attrs := make(map[string]types.MessageAttributeValue)
	for k, v := range evt.attributes() {
		attrs[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	input := &sns.PublishInput{
		TopicArn:          aws.String(s.topic.TopicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: attrs,
	}
	if s.topic.Subject != "" {
		input.Subject = aws.String(s.topic.Subject)
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		s.failed(evt, err)
		return fmt.Errorf("publish %s to sns: %w", evt.Action, err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}
