package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// ErrEmptyTopic is returned when an OrderTopic is built without a topic ARN.
var ErrEmptyTopic = errors.New("order topic ARN is empty")

type snsPublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// OrderTopic publishes order events to one SNS topic. Every message carries
// an event_type attribute so subscribers can filter on it. On FIFO topics the
// group key becomes the message group, keeping one order's events in order.
type OrderTopic struct {
	api      snsPublishAPI
	topicArn string
	fifo     bool
}

func NewOrderTopic(cfg sdkaws.Config, topicArn string) (*OrderTopic, error) {
	return newOrderTopic(sns.NewFromConfig(cfg), topicArn)
}

func newOrderTopic(api snsPublishAPI, topicArn string) (*OrderTopic, error) {
	if topicArn == "" {
		return nil, ErrEmptyTopic
	}
	return &OrderTopic{
		api:      api,
		topicArn: topicArn,
		fifo:     strings.HasSuffix(topicArn, ".fifo"),
	}, nil
}

// PublishEvent sends body and returns the SNS message id.
func (t *OrderTopic) PublishEvent(ctx context.Context, eventType, groupKey string, body []byte) (string, error) {
	in := &sns.PublishInput{
		TopicArn: sdkaws.String(t.topicArn),
		Message:  sdkaws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		},
	}
	if t.fifo {
		in.MessageGroupId = sdkaws.String(groupKey)
	}

	out, err := t.api.Publish(ctx, in)
	if err != nil {
		return "", fmt.Errorf("publish %s to %s: %w", eventType, t.topicArn, err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
