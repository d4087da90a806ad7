package book

import "shardbook/internal/model"

// Level is all resting orders at one price on one side, insertion-ordered.
// TotalQuantity is the cached sum of remaining quantities of its unfilled
// orders. Add increases it and RemoveFilled recomputes it; filling an
// order does not update it, so it is current only after RemoveFilled.
type Level struct {
	Key           int64
	Price         float64
	Orders        []*model.Order
	TotalQuantity uint64
}

func newLevel(key int64, price float64) *Level {
	return &Level{Key: key, Price: price}
}

// Add appends a resting order to the back of the queue.
func (l *Level) Add(o *model.Order) {
	l.Orders = append(l.Orders, o)
	l.TotalQuantity += uint64(o.Quantity)
}

// IsEmpty reports whether the level holds no orders at all. Callers run
// RemoveFilled first so that "empty" and "no unfilled orders" coincide.
func (l *Level) IsEmpty() bool {
	return len(l.Orders) == 0
}

// RemoveFilled drops fully-filled orders from the queue and recomputes
// TotalQuantity from what remains.
func (l *Level) RemoveFilled() {
	kept := l.Orders[:0]
	var total uint64
	for _, o := range l.Orders {
		if o.IsFilled() {
			continue
		}
		kept = append(kept, o)
		total += uint64(o.Quantity)
	}
	l.Orders = kept
	l.TotalQuantity = total
}
