// Package config loads the matcher's runtime settings: broker
// addresses, topic names, partition count, consumer group id, and
// publish timeout, via Viper with SHARDBOOK_-prefixed environment
// overrides and an optional YAML file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything a matcher, producer, or monitor process
// needs to talk to the bus.
type Config struct {
	Brokers        []string      `mapstructure:"brokers"`
	OrdersTopic    string        `mapstructure:"orders_topic"`
	EventsTopic    string        `mapstructure:"events_topic"`
	Partitions     int           `mapstructure:"partitions"`
	ConsumerGroup  string        `mapstructure:"consumer_group"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
}

// Load reads configuration from (in increasing precedence) built-in
// defaults, an optional YAML file named shardbook.yaml on the given
// search paths, and SHARDBOOK_-prefixed environment variables.
func Load(searchPaths ...string) (Config, error) {
	v := viper.New()

	v.SetDefault("brokers", []string{"localhost:9092"})
	v.SetDefault("orders_topic", "orders")
	v.SetDefault("events_topic", "match-events")
	v.SetDefault("partitions", 8)
	v.SetDefault("consumer_group", "matching-engine-group")
	v.SetDefault("publish_timeout", 5*time.Second)
	v.SetDefault("metrics_addr", ":9100")

	v.SetConfigName("shardbook")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("shardbook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
