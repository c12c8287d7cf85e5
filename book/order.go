package book

import "feedbook/protocol"

// bookOrder is a live order resting in the book. Fields mirror the spec's
// order record {order_id, price, quantity, side} plus the intrusive
// linked-list pointers needed to splice it out of its price level in O(1).
type bookOrder struct {
	id       uint64
	price    uint64
	quantity uint32
	side     protocol.Side

	next  *bookOrder
	prev  *bookOrder
	level *priceLevel
}

// Order is the read-only view of a resting order returned to callers.
type Order struct {
	ID       uint64
	Price    uint64
	Quantity uint32
	Side     protocol.Side
}

func (o *bookOrder) snapshot() Order {
	return Order{ID: o.id, Price: o.price, Quantity: o.quantity, Side: o.side}
}
