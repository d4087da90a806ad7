package bus

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer wraps a kafka.Reader running in a consumer group, so the
// broker's rebalance protocol — not hand-rolled partition pinning —
// assigns each matcher process its disjoint set of partitions.
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer opens a group-mode reader for topic under groupID.
func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			Topic:          topic,
			GroupID:        groupID,
			StartOffset:    kafka.FirstOffset,
			CommitInterval: 0, // manual commit
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        time.Second,
		}),
	}
}

func (c *KafkaConsumer) Fetch(ctx context.Context) (ConsumedMessage, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return ConsumedMessage{}, err
	}
	return ConsumedMessage{
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
	}, nil
}

func (c *KafkaConsumer) Commit(ctx context.Context, msg ConsumedMessage) error {
	return c.reader.CommitMessages(ctx, kafka.Message{
		Topic:     c.reader.Config().Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// KafkaProducer wraps a kafka.Writer with no Balancer configured, so an
// explicit Message.Partition is honored verbatim — the mechanism that
// lets the worker pin match events to the originating order's partition
// without re-hashing the instrument key.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer opens a writer for topic. It sets no publish timeout of
// its own; each Send is bounded only by the context its caller passes.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     nil, // honor Message.Partition directly
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaProducer) Send(ctx context.Context, partition int, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Partition: partition,
		Key:       []byte(key),
		Value:     value,
	})
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
