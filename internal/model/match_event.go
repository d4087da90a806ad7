package model

// MatchEvent records one executed trade between a buyer and a seller
// order. Price is always the resting side's price level (§4.5).
//
// Invariant: Quantity > 0; BuyerOrderID != SellerOrderID.
type MatchEvent struct {
	ID            string  `json:"id"`
	Instrument    string  `json:"instrument"`
	BuyerOrderID  string  `json:"buyer_order_id"`
	SellerOrderID string  `json:"seller_order_id"`
	Price         float64 `json:"price"`
	Quantity      uint32  `json:"quantity"`
	Timestamp     int64   `json:"timestamp"`
}
