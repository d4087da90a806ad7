package partition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shardbook/internal/partition"
)

func TestOfIsDeterministic(t *testing.T) {
	first := partition.Of("AAPL", 8)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, partition.Of("AAPL", 8))
	}
}

func TestOfIsWithinRange(t *testing.T) {
	for _, symbol := range []string{"AAPL", "MSFT", "GOOG", "TSLA", ""} {
		p := partition.Of(symbol, 8)
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 8)
	}
}

func TestOfDistributesAcrossPartitions(t *testing.T) {
	symbols := []string{
		"AAPL", "MSFT", "GOOG", "TSLA", "AMZN", "NFLX", "NVDA", "AMD",
		"INTC", "IBM", "ORCL", "CSCO", "ADBE", "CRM", "PYPL", "UBER",
	}
	seen := make(map[int]bool)
	for _, s := range symbols {
		seen[partition.Of(s, 8)] = true
	}
	assert.Greater(t, len(seen), 1, "expected a spread of symbols to land on more than one partition")
}

func TestOfPanicsOnNonPositiveN(t *testing.T) {
	assert.Panics(t, func() { partition.Of("AAPL", 0) })
	assert.Panics(t, func() { partition.Of("AAPL", -1) })
}
