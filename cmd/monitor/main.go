// Command monitor subscribes to the match-events topic under its own
// consumer group and logs every executed trade, independent of the
// producers and matchers driving the book.
package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"shardbook/internal/bus"
	"shardbook/internal/config"
	"shardbook/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load(".", "/etc/shardbook")
	if err != nil {
		log.Fatal().Err(err).Msg("monitor: failed to load config")
	}

	consumer := bus.NewKafkaConsumer(cfg.Brokers, cfg.EventsTopic, "match-monitor")
	defer consumer.Close()

	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.EventsTopic).Msg("monitor: started")

	for {
		msg, err := consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("monitor: fetch failed")
			continue
		}

		var ev model.MatchEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Warn().Err(err).Int("partition", msg.Partition).Msg("monitor: malformed match event, skipping")
			continue
		}

		log.Info().
			Str("eventID", ev.ID).
			Str("instrument", ev.Instrument).
			Str("buyer", ev.BuyerOrderID).
			Str("seller", ev.SellerOrderID).
			Float64("price", ev.Price).
			Uint32("quantity", ev.Quantity).
			Int64("timestamp", ev.Timestamp).
			Int("partition", msg.Partition).
			Msg("trade executed")

		_ = consumer.Commit(ctx, msg)
	}
}
