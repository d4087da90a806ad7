package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"shardbook/internal/model"
)

func TestMatchEventJSONRoundtrip(t *testing.T) {
	ev := model.MatchEvent{
		ID:            "m1",
		Instrument:    "AAPL",
		BuyerOrderID:  "B1",
		SellerOrderID: "S1",
		Price:         150.00,
		Quantity:      100,
		Timestamp:     1234,
	}
	data, err := json.Marshal(ev)
	assert.NoError(t, err)

	var decoded model.MatchEvent
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)
}
