package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"shardbook/internal/model"
)

func TestOrderFill(t *testing.T) {
	o := &model.Order{ID: "o1", Quantity: 100, OriginalQuantity: 100}

	assert.Equal(t, uint32(40), o.Fill(40))
	assert.Equal(t, uint32(60), o.Quantity)
	assert.False(t, o.IsFilled())

	assert.Equal(t, uint32(60), o.Fill(1000))
	assert.Equal(t, uint32(0), o.Quantity)
	assert.True(t, o.IsFilled())
}

func TestSideJSONRoundtrip(t *testing.T) {
	for _, s := range []model.Side{model.Buy, model.Sell} {
		data, err := json.Marshal(s)
		assert.NoError(t, err)

		var decoded model.Side
		assert.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, s, decoded)
	}
}

func TestSideUnmarshalInvalid(t *testing.T) {
	var s model.Side
	assert.Error(t, json.Unmarshal([]byte(`"hold"`), &s))
}

func TestOrderUnmarshalDefaultsOriginalQuantity(t *testing.T) {
	var o model.Order
	raw := `{"id":"o1","instrument":"AAPL","side":"buy","price":150.5,"quantity":100,"timestamp":1000}`
	assert.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.Equal(t, uint32(100), o.OriginalQuantity)
}

func TestOrderUnmarshalHonorsExplicitOriginalQuantity(t *testing.T) {
	var o model.Order
	raw := `{"id":"o1","instrument":"AAPL","side":"buy","price":150.5,"quantity":40,"original_quantity":100,"timestamp":1000}`
	assert.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.Equal(t, uint32(100), o.OriginalQuantity)
	assert.Equal(t, uint32(40), o.Quantity)
}

func TestOrderJSONRoundtrip(t *testing.T) {
	o := model.Order{
		ID:               "o1",
		Instrument:       "AAPL",
		Side:             model.Sell,
		Price:            150.25,
		Quantity:         40,
		OriginalQuantity: 100,
		Timestamp:        1234,
	}
	data, err := json.Marshal(o)
	assert.NoError(t, err)

	var decoded model.Order
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, o, decoded)
}

func TestOrderClone(t *testing.T) {
	o := &model.Order{ID: "o1", Quantity: 100}
	c := o.Clone()
	c.Fill(50)

	assert.Equal(t, uint32(100), o.Quantity)
	assert.Equal(t, uint32(50), c.Quantity)
}
