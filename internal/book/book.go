// Package book implements the per-instrument limit order book: two
// price-indexed containers of price levels, one per side, iterated
// highest-first for bids and lowest-first for asks.
package book

import (
	"errors"

	"github.com/tidwall/btree"

	"shardbook/internal/model"
	"shardbook/internal/priceindex"
)

// ErrCancelNotSupported is returned by Cancel. Order cancellation,
// amendment, and expiry are not implemented; Cancel exists only as an
// extension hook for a future caller to wire up.
var ErrCancelNotSupported = errors.New("book: order cancellation is not implemented")

// Side is one of a Book's Bids or Asks: an ordered set of price Levels
// keyed by centi-price, with "best" always first in iteration order.
type Side struct {
	tree *btree.BTreeG[*Level]
}

func newSide(less func(a, b *Level) bool) *Side {
	return &Side{tree: btree.NewBTreeG(less)}
}

// Add appends o to the level for o's price, creating the level if absent.
func (s *Side) Add(o *model.Order) {
	key := priceindex.ToKey(o.Price)
	lvl, ok := s.tree.Get(&Level{Key: key})
	if !ok {
		lvl = newLevel(key, o.Price)
		s.tree.Set(lvl)
	}
	lvl.Add(o)
}

// Best returns the highest-priority level (highest bid / lowest ask), or
// false if the side is empty.
func (s *Side) Best() (*Level, bool) {
	return s.tree.Min()
}

// Delete removes lvl outright, regardless of whether it still holds
// orders. The matching sweep uses this to drop a level it has just
// exhausted so the next Best() call does not re-select it within the
// same ProcessOrder call.
func (s *Side) Delete(lvl *Level) {
	s.tree.Delete(lvl)
}

// CleanupEmpty removes any level left with no orders.
func (s *Side) CleanupEmpty() {
	var empty []*Level
	s.tree.Scan(func(lvl *Level) bool {
		if lvl.IsEmpty() {
			empty = append(empty, lvl)
		}
		return true
	})
	for _, lvl := range empty {
		s.tree.Delete(lvl)
	}
}

// Items returns a full snapshot of levels in iteration order. Used by
// tests and by book introspection, not by the matching hot path.
func (s *Side) Items() []*Level {
	items := make([]*Level, 0, s.tree.Len())
	s.tree.Scan(func(lvl *Level) bool {
		items = append(items, lvl)
		return true
	})
	return items
}

// Book is one instrument's two-sided order book.
type Book struct {
	Instrument string
	Bids       *Side // ordered highest price first
	Asks       *Side // ordered lowest price first
}

// New creates an empty book for instrument.
func New(instrument string) *Book {
	return &Book{
		Instrument: instrument,
		Bids: newSide(func(a, b *Level) bool {
			return a.Key > b.Key // descending: highest bid first
		}),
		Asks: newSide(func(a, b *Level) bool {
			return a.Key < b.Key // ascending: lowest ask first
		}),
	}
}

// sideFor returns the resting side an order of s belongs to.
func (b *Book) sideFor(s model.Side) *Side {
	if s == model.Buy {
		return b.Bids
	}
	return b.Asks
}

// Add rests o on its own side at its limit price. No matching is
// performed here; callers run the match first and only rest what's left.
func (b *Book) Add(o *model.Order) {
	b.sideFor(o.Side).Add(o)
}

// BestBid returns the best resting bid price, if any.
func (b *Book) BestBid() (float64, bool) {
	lvl, ok := b.Bids.Best()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the best resting ask price, if any.
func (b *Book) BestAsk() (float64, bool) {
	lvl, ok := b.Asks.Best()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// CleanupEmptyLevels removes any level left with no resting orders on
// either side.
func (b *Book) CleanupEmptyLevels() {
	b.Bids.CleanupEmpty()
	b.Asks.CleanupEmpty()
}

// Cancel is an explicit extension hook; cancellation is a Non-goal.
func (b *Book) Cancel(orderID string) error {
	return ErrCancelNotSupported
}
