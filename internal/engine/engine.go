// Package engine implements price-priority / pro-rata matching,
// synchronously and without any suspension point: from receipt of an
// order to the return of its full match batch, ProcessOrder never
// blocks on a channel or goroutine.
package engine

import (
	"shardbook/internal/book"
	"shardbook/internal/model"
	"shardbook/internal/priceindex"
)

// IDGenerator produces unique match event ids. Satisfied by
// github.com/google/uuid's NewString in production; tests supply a
// deterministic sequence.
type IDGenerator func() string

// Clock returns the wall-clock seconds stamped on each match event.
// Injected so tests can assert exact event contents.
type Clock func() int64

// Engine owns one OrderBook per instrument, all confined to a single
// partition. It has no locks: the partition worker that owns an Engine
// is its only caller.
type Engine struct {
	books map[string]*book.Book
	newID IDGenerator
	now   Clock
}

// New creates an empty engine. newID and now must not be nil.
func New(newID IDGenerator, now Clock) *Engine {
	return &Engine{
		books: make(map[string]*book.Book),
		newID: newID,
		now:   now,
	}
}

// Books exposes the instrument->book map for introspection (logging,
// tests). Callers must not mutate books directly; only ProcessOrder may.
func (e *Engine) Books() map[string]*book.Book {
	return e.books
}

func (e *Engine) bookFor(instrument string) *book.Book {
	b, ok := e.books[instrument]
	if !ok {
		b = book.New(instrument)
		e.books[instrument] = b
	}
	return b
}

// ProcessOrder runs order against the resting book for its instrument
// and returns the match events produced, in the order they occurred:
// price-priority outer (best level first), insertion-order inner. Any
// unfilled remainder rests on order's own side at its original limit
// price.
func (e *Engine) ProcessOrder(order *model.Order) []model.MatchEvent {
	b := e.bookFor(order.Instrument)

	var events []model.MatchEvent
	if order.Side == model.Buy {
		events = e.sweep(b.Asks, order, priceindex.ToKey(order.Price), ascending)
	} else {
		events = e.sweep(b.Bids, order, priceindex.ToKey(order.Price), descending)
	}

	if !order.IsFilled() {
		b.Add(order)
	}
	b.CleanupEmptyLevels()
	return events
}

// ordering picks the crossability test for a scan direction: ascending
// for a buy walking asks (ask <= limit), descending for a sell walking
// bids (bid >= limit).
type ordering func(levelKey, limit int64) bool

func ascending(levelKey, limit int64) bool  { return levelKey <= limit }
func descending(levelKey, limit int64) bool { return levelKey >= limit }

// sweep walks the opposing side's price levels in their natural best-first
// order, pro-rata matching the aggressive order against each crossable
// level until it fills or the book stops crossing.
func (e *Engine) sweep(opposing *book.Side, aggressive *model.Order, limit int64, crosses ordering) []model.MatchEvent {
	var events []model.MatchEvent

	for !aggressive.IsFilled() {
		lvl, ok := opposing.Best()
		if !ok || !crosses(lvl.Key, limit) {
			break
		}
		events = append(events, e.proRataMatch(aggressive, lvl)...)
		lvl.RemoveFilled()
		if lvl.IsEmpty() {
			// Drop the exhausted level immediately so the next Best()
			// call does not re-select it within this same sweep.
			opposing.Delete(lvl)
		}
	}
	return events
}

// proRataMatch allocates aggressive's remaining quantity across lvl's
// resting orders in proportion to their sizes, then executes the
// resulting fills.
func (e *Engine) proRataMatch(aggressive *model.Order, lvl *book.Level) []model.MatchEvent {
	a := uint64(aggressive.Quantity)
	t := lvl.TotalQuantity
	if a == 0 || t == 0 {
		return nil
	}

	n := len(lvl.Orders)
	allocations := make([]uint64, n)

	// 1. Proportional pass.
	var allocated uint64
	for i, o := range lvl.Orders {
		if o.IsFilled() {
			continue
		}
		r := uint64(o.Quantity)
		alloc := a * r / t
		if alloc > r {
			alloc = r
		}
		allocations[i] = alloc
		allocated += alloc
	}

	// 2. Residual distribution: floor division leaves units unallocated
	// whenever a*r is not a multiple of t; hand those out one at a time
	// in insertion order.
	remaining := a - allocated
	for i := 0; remaining > 0 && i < n; i++ {
		o := lvl.Orders[i]
		if o.IsFilled() {
			continue
		}
		r := uint64(o.Quantity)
		if r == allocations[i] {
			continue
		}
		allocations[i]++
		remaining--
	}

	// 3. Execution pass.
	var events []model.MatchEvent
	for i, o := range lvl.Orders {
		if allocations[i] == 0 {
			continue
		}
		qty := uint32(allocations[i])
		aggFilled := aggressive.Fill(qty)
		passiveFilled := o.Fill(qty)
		traded := aggFilled
		if passiveFilled < traded {
			traded = passiveFilled
		}
		if traded > 0 {
			events = append(events, e.buildEvent(aggressive, o, lvl.Price, traded))
		}
		if aggressive.IsFilled() {
			break
		}
	}
	return events
}

func (e *Engine) buildEvent(aggressive, resting *model.Order, price float64, qty uint32) model.MatchEvent {
	buyerID, sellerID := resting.ID, aggressive.ID
	if aggressive.Side == model.Buy {
		buyerID, sellerID = aggressive.ID, resting.ID
	}
	return model.MatchEvent{
		ID:            e.newID(),
		Instrument:    aggressive.Instrument,
		BuyerOrderID:  buyerID,
		SellerOrderID: sellerID,
		Price:         price,
		Quantity:      qty,
		Timestamp:     e.now(),
	}
}
