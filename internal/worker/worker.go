// Package worker implements the partition worker that drives the
// matching engine: fetch an order from the bus, run it through the
// engine, publish every resulting match event pinned to the input
// partition, then commit the input offset.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"shardbook/internal/bus"
	"shardbook/internal/engine"
	"shardbook/internal/metrics"
	"shardbook/internal/model"
)

// Idempotency is an optional per-partition processed-order dedupe hook.
// Redelivery after a publish failure can replay an order whose effect
// already reached the book; a caller that wants to guard against that
// double-count supplies one. NoopIdempotency, the default, never
// suppresses a redelivered order.
type Idempotency interface {
	Seen(orderID string) bool
	Mark(orderID string)
}

type noopIdempotency struct{}

func (noopIdempotency) Seen(string) bool { return false }
func (noopIdempotency) Mark(string)      {}

// NoopIdempotency is the default Idempotency: it never dedupes.
var NoopIdempotency Idempotency = noopIdempotency{}

// PartitionWorker owns one Engine and drives it from one input
// partition, publishing to the same partition of the output topic.
type PartitionWorker struct {
	Consumer       bus.Consumer
	Producer       bus.Producer
	Engine         *engine.Engine
	OutputTopic    string
	PublishTimeout time.Duration
	Idempotency    Idempotency
	Metrics        *metrics.Collector
}

// New builds a PartitionWorker with sane defaults for optional fields.
func New(consumer bus.Consumer, producer bus.Producer, eng *engine.Engine, outputTopic string) *PartitionWorker {
	return &PartitionWorker{
		Consumer:       consumer,
		Producer:       producer,
		Engine:         eng,
		OutputTopic:    outputTopic,
		PublishTimeout: 5 * time.Second,
		Idempotency:    NoopIdempotency,
		Metrics:        metrics.NewCollector(),
	}
}

// Run drives the fetch/process/publish/commit loop until t is dying.
// Cooperative shutdown: an in-flight cycle always finishes before Run
// returns, and its publishes are not cancelled by the shutdown. Its offset
// commit uses the tomb's context and can fail once shutdown begins; the
// failure is logged.
func (w *PartitionWorker) Run(t *tomb.Tomb) error {
	ctx := t.Context(nil)
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		msg, err := w.Consumer.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Error().Err(err).Msg("worker: fetch failed")
			continue
		}

		w.handle(ctx, msg)
	}
}

// handle processes exactly one bus message: decode, match, publish,
// commit. A malformed or empty payload is skipped and its offset still
// committed; a publish failure skips the commit and the worker moves on
// to the next message. The order is redelivered only if the consumer
// restarts before a later offset on the partition is committed.
func (w *PartitionWorker) handle(ctx context.Context, msg bus.ConsumedMessage) {
	order, ok := w.decode(msg)
	if !ok {
		w.commit(ctx, msg)
		return
	}

	if w.Idempotency.Seen(order.ID) {
		w.commit(ctx, msg)
		return
	}

	start := time.Now()
	events := w.Engine.ProcessOrder(order)
	w.Metrics.ProcessLatency.Observe(time.Since(start).Seconds())
	w.Metrics.OrdersProcessed.Inc()

	if err := w.publishAll(ctx, msg.Partition, events); err != nil {
		log.Error().
			Err(err).
			Str("orderID", order.ID).
			Int("partition", msg.Partition).
			Msg("worker: publish failed, offset not committed")
		return
	}

	w.Idempotency.Mark(order.ID)
	w.commit(ctx, msg)
}

// decode parses msg.Value into an Order. Malformed or empty payloads are
// logged and skipped; the caller still commits the offset.
func (w *PartitionWorker) decode(msg bus.ConsumedMessage) (*model.Order, bool) {
	if len(msg.Value) == 0 {
		log.Warn().Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("worker: empty payload, skipping")
		w.Metrics.PayloadsDropped.Inc()
		return nil, false
	}
	var order model.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Warn().
			Err(err).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("worker: malformed payload, skipping")
		w.Metrics.PayloadsDropped.Inc()
		return nil, false
	}
	return &order, true
}

// publishAll sends every match event to OutputTopic, pinned to
// partition (the input message's partition, not re-hashed).
func (w *PartitionWorker) publishAll(ctx context.Context, partition int, events []model.MatchEvent) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			// Serialization is total for model.MatchEvent; this is a
			// programmer error, not a transient fault.
			log.Error().Err(err).Str("eventID", ev.ID).Msg("worker: failed to serialize match event, skipping")
			continue
		}

		// Detached from ctx's cancellation so a shutdown does not abort a
		// publish already in flight; PublishTimeout still bounds it.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.PublishTimeout)
		start := time.Now()
		err = w.Producer.Send(sendCtx, partition, ev.Instrument, payload)
		w.Metrics.PublishLatency.Observe(time.Since(start).Seconds())
		cancel()
		if err != nil {
			return err
		}
		w.Metrics.MatchEventsEmitted.Inc()
	}
	return nil
}

// commit acknowledges msg. A failure here is logged and swallowed: a
// later successful commit supersedes it.
func (w *PartitionWorker) commit(ctx context.Context, msg bus.ConsumedMessage) {
	if err := w.Consumer.Commit(ctx, msg); err != nil {
		log.Error().Err(err).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("worker: commit failed")
	}
}
