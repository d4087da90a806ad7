// Command matcher runs one partition worker per configured partition,
// each owning its own Engine, Kafka consumer, and Kafka producer, and
// serves Prometheus metrics over HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"shardbook/internal/bus"
	"shardbook/internal/config"
	"shardbook/internal/engine"
	"shardbook/internal/worker"
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
		log.Fatal().Err(err).Msg("matcher: failed to load config")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	httpSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("matcher: metrics server stopped")
		}
	}()

	var t tomb.Tomb
	for p := 0; p < cfg.Partitions; p++ {
		consumer := bus.NewKafkaConsumer(cfg.Brokers, cfg.OrdersTopic, cfg.ConsumerGroup)
		producer := bus.NewKafkaProducer(cfg.Brokers, cfg.EventsTopic)
		eng := engine.New(uuid.NewString, func() int64 { return time.Now().Unix() })

		w := worker.New(consumer, producer, eng, cfg.EventsTopic)
		w.PublishTimeout = cfg.PublishTimeout

		t.Go(func() error {
			return w.Run(&t)
		})
	}

	log.Info().Int("partitions", cfg.Partitions).Strs("brokers", cfg.Brokers).Msg("matcher: started")

	<-ctx.Done()
	t.Kill(nil)
	_ = t.Wait()
	_ = httpSrv.Close()
}
