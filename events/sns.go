package events

import "context"

// TopicPublisher publishes one event to a message topic and returns its
// message id.
type TopicPublisher interface {
	PublishEvent(ctx context.Context, eventType, groupKey string, body []byte) (string, error)
}

// SNSSink publishes events to an SNS topic.
type SNSSink struct {
	topic TopicPublisher
}

func NewSNSSink(topic TopicPublisher) *SNSSink {
	return &SNSSink{topic: topic}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Send(ctx context.Context, msg Message) error {
	_, err := s.topic.PublishEvent(ctx, msg.EventType, msg.Key, msg.Payload)
	return err
}
