package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"shardbook/internal/bus"
	"shardbook/internal/engine"
)

// fakeConsumer and fakeProducer are minimal bus.Consumer/bus.Producer
// stand-ins so handle() can be exercised without a broker.

type fakeConsumer struct {
	committed []bus.ConsumedMessage
	commitErr error
}

func (f *fakeConsumer) Fetch(ctx context.Context) (bus.ConsumedMessage, error) {
	return bus.ConsumedMessage{}, errors.New("fakeConsumer.Fetch not used in these tests")
}

func (f *fakeConsumer) Commit(ctx context.Context, msg bus.ConsumedMessage) error {
	f.committed = append(f.committed, msg)
	return f.commitErr
}

func (f *fakeConsumer) Close() error { return nil }

type sentMessage struct {
	partition int
	key       string
	value     []byte
}

type fakeProducer struct {
	sent    []sentMessage
	sendErr error
}

func (f *fakeProducer) Send(ctx context.Context, partition int, key string, value []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{partition, key, value})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func testWorker(consumer *fakeConsumer, producer *fakeProducer) *PartitionWorker {
	n := 0
	eng := engine.New(func() string {
		n++
		return "evt-fixed"
	}, func() int64 { return 7 })
	return New(consumer, producer, eng, "match-events")
}

func TestHandleMalformedPayloadSkipsAndCommits(t *testing.T) {
	consumer := &fakeConsumer{}
	producer := &fakeProducer{}
	w := testWorker(consumer, producer)

	msg := bus.ConsumedMessage{Partition: 3, Offset: 10, Value: []byte("not json")}
	w.handle(context.Background(), msg)

	assert.Empty(t, producer.sent)
	assert.Equal(t, []bus.ConsumedMessage{msg}, consumer.committed)
}

func TestHandleEmptyPayloadSkipsAndCommits(t *testing.T) {
	consumer := &fakeConsumer{}
	producer := &fakeProducer{}
	w := testWorker(consumer, producer)

	msg := bus.ConsumedMessage{Partition: 3, Offset: 11, Value: nil}
	w.handle(context.Background(), msg)

	assert.Empty(t, producer.sent)
	assert.Equal(t, []bus.ConsumedMessage{msg}, consumer.committed)
}

func TestHandlePublishFailureDoesNotCommit(t *testing.T) {
	consumer := &fakeConsumer{}
	producer := &fakeProducer{sendErr: errors.New("broker unreachable")}
	w := testWorker(consumer, producer)

	// Resting sell first, so the incoming buy produces a match event to publish.
	resting := `{"id":"S1","instrument":"AAPL","side":"sell","price":150.0,"quantity":100,"timestamp":1}`
	w.handle(context.Background(), bus.ConsumedMessage{Partition: 2, Offset: 0, Value: []byte(resting)})
	assert.Len(t, consumer.committed, 1)

	aggressive := `{"id":"B1","instrument":"AAPL","side":"buy","price":150.0,"quantity":100,"timestamp":2}`
	msg := bus.ConsumedMessage{Partition: 2, Offset: 1, Value: []byte(aggressive)}
	w.handle(context.Background(), msg)

	assert.Len(t, consumer.committed, 1, "offset for the failed-publish message must not be committed")
}

func TestHandleSuccessfulPublishThenCommit(t *testing.T) {
	consumer := &fakeConsumer{}
	producer := &fakeProducer{}
	w := testWorker(consumer, producer)

	resting := `{"id":"S1","instrument":"AAPL","side":"sell","price":150.0,"quantity":100,"timestamp":1}`
	w.handle(context.Background(), bus.ConsumedMessage{Partition: 2, Offset: 0, Value: []byte(resting)})

	aggressive := `{"id":"B1","instrument":"AAPL","side":"buy","price":150.0,"quantity":100,"timestamp":2}`
	msg := bus.ConsumedMessage{Partition: 2, Offset: 1, Value: []byte(aggressive)}
	w.handle(context.Background(), msg)

	assert.Len(t, consumer.committed, 2)
	assert.Len(t, producer.sent, 1)
	assert.Equal(t, 2, producer.sent[0].partition, "match events publish on the input message's partition")
}

func TestHandleIdempotencySkipsSeenOrders(t *testing.T) {
	consumer := &fakeConsumer{}
	producer := &fakeProducer{}
	w := testWorker(consumer, producer)
	w.Idempotency = &memoIdempotency{seen: map[string]bool{"B1": true}}

	aggressive := `{"id":"B1","instrument":"AAPL","side":"buy","price":150.0,"quantity":100,"timestamp":2}`
	msg := bus.ConsumedMessage{Partition: 2, Offset: 1, Value: []byte(aggressive)}
	w.handle(context.Background(), msg)

	assert.Empty(t, producer.sent)
	assert.Equal(t, []bus.ConsumedMessage{msg}, consumer.committed)
}

type memoIdempotency struct {
	seen map[string]bool
}

func (m *memoIdempotency) Seen(orderID string) bool { return m.seen[orderID] }
func (m *memoIdempotency) Mark(orderID string)      { m.seen[orderID] = true }
