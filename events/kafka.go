package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaSink writes events to a Kafka topic keyed by order ID, so all events of
// one order land on the same partition in order.
type KafkaSink struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewKafkaSink(brokers []string, topic string, logger *zap.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &KafkaSink{writer: w, topic: topic, logger: logger}
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Send(ctx context.Context, msg Message) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Payload,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(msg.EventType)}},
	})
}

func (k *KafkaSink) Close() error {
	k.logger.Info("Closing Kafka producer", zap.String("topic", k.topic))
	return k.writer.Close()
}
