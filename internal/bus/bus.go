// Package bus defines the contracts the matching subsystem consumes
// from the message bus: a consumer stream, a producer send, and an
// offset commit. internal/worker depends only on these interfaces;
// internal/bus/kafka.go is the one concrete binding, over
// github.com/segmentio/kafka-go.
package bus

import "context"

// ConsumedMessage is one message read off an input partition.
type ConsumedMessage struct {
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
}

// Consumer reads messages from one assigned partition of a topic and
// commits offsets for messages it has finished processing.
type Consumer interface {
	// Fetch blocks until the next message is available, ctx is done, or
	// the consumer is closed.
	Fetch(ctx context.Context) (ConsumedMessage, error)
	// Commit records msg as processed. Safe to call repeatedly; a later
	// successful commit supersedes an earlier one.
	Commit(ctx context.Context, msg ConsumedMessage) error
	Close() error
}

// Producer publishes messages to explicit partitions of a topic,
// pinning the partition rather than re-hashing the key.
type Producer interface {
	Send(ctx context.Context, partition int, key string, value []byte) error
	Close() error
}
