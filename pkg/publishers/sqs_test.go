package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func newTestSQS(queue SQSConfig, client sqsAPI, log logger.Logger) *sqsPublisher {
	return &sqsPublisher{
		sink:   sink{id: "queue", typ: TypeSQS, log: logger.Ensure(log)},
		queue:  queue,
		client: client,
	}
}

func TestSQSPublisherSendsFavouriteEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := newTestSQS(SQSConfig{QueueURL: "https://example.com/queue"}, client, nil)

	if err := pub.Publish(context.Background(), NewEvent(ActionFavouriteAdded, "img-1", "user-1")); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["image_id"]
	if !ok || aws.ToString(attr.StringValue) != "img-1" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("image_id attribute missing or wrong: %#v", attr)
	}
	if got := aws.ToString(client.input.MessageAttributes["sub_id"].StringValue); got != "user-1" {
		t.Fatalf("sub_id attribute = %q", got)
	}
	body := aws.ToString(client.input.MessageBody)
	if !strings.Contains(body, `"action":"favourite_added"`) || !strings.Contains(body, `"sub_id":"user-1"`) {
		t.Fatalf("MessageBody missing fields: %s", body)
	}
	if client.input.MessageGroupId != nil || client.input.MessageDeduplicationId != nil {
		t.Fatalf("standard queue got fifo fields: %#v", client.input)
	}
}

func TestSQSPublisherFIFOGroups(t *testing.T) {
	cases := []struct {
		name  string
		group string
		subID string
		want  string
	}{
		{name: "configured group wins", group: "cats", subID: "user-1", want: "cats"},
		{name: "grouped by subscriber", subID: "user-1", want: "user-1"},
		{name: "anonymous favourites", want: defaultMessageGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeSQSClient{}
			pub := newTestSQS(SQSConfig{
				QueueURL:     "https://example.com/favourites.fifo",
				MessageGroup: tc.group,
			}, client, nil)

			evt := NewEvent(ActionFavouriteRemoved, "img-2", tc.subID)
			if err := pub.Publish(context.Background(), evt); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if got := aws.ToString(client.input.MessageGroupId); got != tc.want {
				t.Fatalf("MessageGroupId = %q, want %q", got, tc.want)
			}
			if got := aws.ToString(client.input.MessageDeduplicationId); got != evt.dedupKey() {
				t.Fatalf("MessageDeduplicationId = %q", got)
			}
		})
	}
}

func TestSQSPublisherSendErrorIsLogged(t *testing.T) {
	log := &recordingLogger{}
	pub := newTestSQS(SQSConfig{QueueURL: "https://example.com/queue"}, &fakeSQSClient{err: errors.New("boom")}, log)

	err := pub.Publish(context.Background(), NewEvent(ActionFavouriteRemoved, "img-1", ""))
	if err == nil || !strings.Contains(err.Error(), ActionFavouriteRemoved) {
		t.Fatalf("expected send error naming the action, got %v", err)
	}
	if got := log.keys(); len(got) != 1 || got[0] != "favourite_sink_error" {
		t.Fatalf("unexpected log entries %v", got)
	}
}

func TestNewSQSPublisherRequiresQueue(t *testing.T) {
	if _, err := newSQSPublisher(context.Background(), SinkConfig{ID: "q", Type: TypeSQS}, nil); err == nil {
		t.Fatalf("expected error for missing sqs block")
	}
}
