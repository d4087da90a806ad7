// Command producer publishes orders to the input topic, computing each
// order's partition with internal/partition so it lands on the worker
// that owns its instrument. With -scenario it replays one of the six
// literal end-to-end scenarios for manual verification against a live
// broker instead of reading orders from stdin.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shardbook/internal/bus"
	"shardbook/internal/config"
	"shardbook/internal/model"
	"shardbook/internal/partition"
)

func main() {
	scenario := flag.Int("scenario", 0, "replay end-to-end scenario 1-6 instead of reading stdin")
	instrument := flag.String("instrument", "AAPL", "instrument symbol used for orders read from stdin")
	flag.Parse()

	cfg, err := config.Load(".", "/etc/shardbook")
	if err != nil {
		log.Fatal().Err(err).Msg("producer: failed to load config")
	}

	producer := bus.NewKafkaProducer(cfg.Brokers, cfg.OrdersTopic)
	defer producer.Close()

	ctx := context.Background()

	if *scenario != 0 {
		orders, err := scenarioOrders(*scenario)
		if err != nil {
			log.Fatal().Err(err).Msg("producer: unknown scenario")
		}
		for _, o := range orders {
			publish(ctx, producer, cfg.Partitions, o)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var o model.Order
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			log.Error().Err(err).Msg("producer: skipping malformed stdin line")
			continue
		}
		if o.Instrument == "" {
			o.Instrument = *instrument
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		publish(ctx, producer, cfg.Partitions, &o)
	}
}

func publish(ctx context.Context, p *bus.KafkaProducer, partitions int, o *model.Order) {
	payload, err := json.Marshal(o)
	if err != nil {
		log.Error().Err(err).Str("orderID", o.ID).Msg("producer: failed to serialize order")
		return
	}
	part := partition.Of(o.Instrument, partitions)
	if err := p.Send(ctx, part, o.Instrument, payload); err != nil {
		log.Error().Err(err).Str("orderID", o.ID).Int("partition", part).Msg("producer: publish failed")
		return
	}
	log.Info().Str("orderID", o.ID).Str("instrument", o.Instrument).Int("partition", part).Msg("producer: order published")
}

func order(id string, instrument string, side model.Side, price float64, qty uint32) *model.Order {
	return &model.Order{
		ID:               id,
		Instrument:       instrument,
		Side:             side,
		Price:            price,
		Quantity:         qty,
		OriginalQuantity: qty,
		Timestamp:        time.Now().Unix(),
	}
}

// scenarioOrders returns the resting-then-aggressive order sequence for
// one of the six canned end-to-end demonstrations: a simple crossing
// buy, a partial aggressive fill, walking multiple ask levels, pro-rata
// allocation at one level (with and without a residual), and
// cross-partition isolation between two instruments.
func scenarioOrders(n int) ([]*model.Order, error) {
	switch n {
	case 1: // simple crossing buy
		return []*model.Order{
			order("S1", "AAPL", model.Sell, 150.00, 100),
			order("B1", "AAPL", model.Buy, 150.50, 100),
		}, nil
	case 2: // partial fill of aggressive
		return []*model.Order{
			order("S1", "AAPL", model.Sell, 150.00, 40),
			order("B1", "AAPL", model.Buy, 150.00, 100),
		}, nil
	case 3: // walk the book
		return []*model.Order{
			order("S1", "AAPL", model.Sell, 150.00, 50),
			order("S2", "AAPL", model.Sell, 150.50, 30),
			order("B1", "AAPL", model.Buy, 151.00, 100),
		}, nil
	case 4: // pro-rata at one level
		return []*model.Order{
			order("S1", "AAPL", model.Sell, 148.00, 1000),
			order("B1", "AAPL", model.Buy, 148.00, 100),
			order("B2", "AAPL", model.Buy, 148.00, 100),
			order("B3", "AAPL", model.Buy, 148.00, 200),
			order("B4", "AAPL", model.Buy, 148.00, 300),
			order("B5", "AAPL", model.Buy, 148.00, 150),
			order("S2", "AAPL", model.Sell, 148.00, 1000),
		}, nil
	case 5: // pro-rata with residual
		return []*model.Order{
			order("B1", "AAPL", model.Buy, 100.00, 3),
			order("B2", "AAPL", model.Buy, 100.00, 3),
			order("B3", "AAPL", model.Buy, 100.00, 3),
			order("S1", "AAPL", model.Sell, 100.00, 5),
		}, nil
	case 6: // cross-partition isolation
		return []*model.Order{
			order("S-AAPL", "AAPL", model.Sell, 150.00, 100),
			order("B-AAPL", "AAPL", model.Buy, 150.00, 100),
			order("S-MSFT", "MSFT", model.Sell, 250.00, 100),
			order("B-MSFT", "MSFT", model.Buy, 250.00, 100),
		}, nil
	default:
		return nil, fmt.Errorf("producer: no such scenario %d", n)
	}
}
