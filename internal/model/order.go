// Package model holds the wire-schema value types shared by the book,
// the engine, and the bus: orders and match events.
package model

import (
	"encoding/json"
	"fmt"
)

// Side is which side of the book an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// MarshalJSON encodes Side as the wire strings "buy"/"sell".
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the wire strings "buy"/"sell" into a Side.
func (s *Side) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"buy"`:
		*s = Buy
	case `"sell"`:
		*s = Sell
	default:
		return fmt.Errorf("model: invalid side %s", data)
	}
	return nil
}

// Order is one resting or aggressive order. Quantity is the remaining
// (unfilled) amount; OriginalQuantity never changes after construction.
//
// Invariant: Quantity <= OriginalQuantity; IsFilled() iff Quantity == 0.
type Order struct {
	ID               string  `json:"id"`
	Instrument       string  `json:"instrument"`
	Side             Side    `json:"side"`
	Price            float64 `json:"price"`
	Quantity         uint32  `json:"quantity"`
	OriginalQuantity uint32  `json:"original_quantity"`
	Timestamp        int64   `json:"timestamp"`
}

// Fill decrements Quantity by min(Quantity, q) and returns the decrement.
func (o *Order) Fill(q uint32) uint32 {
	dec := q
	if dec > o.Quantity {
		dec = o.Quantity
	}
	o.Quantity -= dec
	return dec
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Clone returns a value copy, safe to mutate independently of the original.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

// UnmarshalJSON defaults OriginalQuantity to Quantity when the producer
// omitted it.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		OriginalQuantity *uint32 `json:"original_quantity"`
		*alias
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.OriginalQuantity != nil {
		o.OriginalQuantity = *aux.OriginalQuantity
	} else {
		o.OriginalQuantity = o.Quantity
	}
	return nil
}
