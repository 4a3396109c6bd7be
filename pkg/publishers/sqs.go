package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

const defaultMessageGroup = "favourites"

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher enqueues favourite events. FIFO queues group messages by
// subscriber so one user's adds and removes stay ordered.
type sqsPublisher struct {
	sink
	queue  SQSConfig
	client sqsAPI
}

func newSQSPublisher(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if err := cfg.SQS.validate(); err != nil {
		return nil, err
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, err
	}
	return &sqsPublisher{
		sink:   newSink(cfg, log),
		queue:  *cfg.SQS,
		client: sqs.NewFromConfig(awsCfg),
	}, nil
}

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.payload()
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queue.QueueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: sqsAttributes(evt),
	}
	if s.queue.fifo() {
		input.MessageGroupId = aws.String(s.messageGroup(evt))
		input.MessageDeduplicationId = aws.String(evt.dedupKey())
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.failed(evt, err)
		return fmt.Errorf("send %s to sqs: %w", evt.Action, err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}

func (s *sqsPublisher) messageGroup(evt Event) string {
	switch {
	case s.queue.MessageGroup != "":
		return s.queue.MessageGroup
	case evt.SubID != "":
		return evt.SubID
	}
	return defaultMessageGroup
}

func sqsAttributes(evt Event) map[string]types.MessageAttributeValue {
	attrs := make(map[string]types.MessageAttributeValue)
	for k, v := range evt.attributes() {
		attrs[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}
	return attrs
}
