// Package book maintains the dual-sided, price-indexed limit order book:
// level-aggregated bids/asks plus per-order records, kept consistent by
// applying decoded wire messages one at a time.
//
// The book is not internally synchronized — it presumes exclusive access by
// one ingest goroutine, per the single-threaded cooperative core design.
package book

import (
	"fmt"

	"feedbook/decode"
	"feedbook/protocol"
)

// Level is one aggregate (price, quantity) pair as returned by queries.
type Level struct {
	Price    uint64
	Quantity uint64
}

// Depth is the result of a Depth query: up to n levels per side.
type Depth struct {
	Bids []Level
	Asks []Level
}

// OrderBook is a single-symbol, dual-sided limit order book.
type OrderBook struct {
	bids *priceTree
	asks *priceTree

	orders map[uint64]*bookOrder
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:   newPriceTree(true),
		asks:   newPriceTree(false),
		orders: make(map[uint64]*bookOrder),
	}
}

func (b *OrderBook) treeFor(side protocol.Side) *priceTree {
	if side == protocol.Bid {
		return b.bids
	}
	return b.asks
}

// Apply dispatches view to the matching event handler and mutates the book
// accordingly. On a rejected event the book is left exactly as it was
// before the call.
func (b *OrderBook) Apply(view decode.View) error {
	switch v := view.(type) {
	case decode.AddOrderView:
		return b.applyAdd(v)
	case decode.ModifyOrderView:
		return b.applyModify(v)
	case decode.DeleteOrderView:
		return b.applyDelete(v)
	case decode.TradeView:
		b.applyTrade(v)
		return nil
	case decode.SnapshotView:
		b.applySnapshot(v)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnexpectedMessageType, view)
	}
}

func (b *OrderBook) applyAdd(v decode.AddOrderView) error {
	id := v.OrderID()
	if _, exists := b.orders[id]; exists {
		return ErrDuplicateOrder
	}
	side := v.Side()
	if !side.Valid() {
		return ErrInvalidSide
	}

	price := v.Price()
	order := &bookOrder{id: id, price: price, quantity: v.Quantity(), side: side}

	tree := b.treeFor(side)
	level := tree.Find(price)
	if level == nil {
		level = newPriceLevel(price)
		tree.Insert(level)
	}
	level.orders.pushBack(order)
	level.quantity += uint64(order.quantity)
	order.level = level

	b.orders[id] = order
	return nil
}

func (b *OrderBook) applyModify(v decode.ModifyOrderView) error {
	id := v.OrderID()
	order, exists := b.orders[id]
	if !exists {
		return ErrUnknownOrder
	}

	newQty := v.NewQuantity()
	if newQty == 0 {
		// Recommended resolution of the "modify to zero" open question:
		// remove the order entirely rather than leaving a zero-quantity
		// record, which keeps I1/I2 trivially true without a separate
		// cleanup pass. removeOrder takes the old quantity off the level.
		b.removeOrder(order)
		return nil
	}

	level := order.level
	level.quantity = satSubU64(level.quantity, uint64(order.quantity))
	level.quantity += uint64(newQty)
	order.quantity = newQty
	b.removeLevelIfEmpty(b.treeFor(order.side), level)
	return nil
}

func (b *OrderBook) applyDelete(v decode.DeleteOrderView) error {
	order, exists := b.orders[v.OrderID()]
	if !exists {
		return ErrUnknownOrder
	}
	b.removeOrder(order)
	return nil
}

// applyTrade reduces or removes the two referenced orders. Orders that are
// not found in this book are silently ignored — they may be resting on the
// opposite venue / outside this book's universe.
func (b *OrderBook) applyTrade(v decode.TradeView) {
	qty := v.Quantity()
	b.reduceIfPresent(v.BuyerID(), qty)
	b.reduceIfPresent(v.SellerID(), qty)
}

func (b *OrderBook) reduceIfPresent(id uint64, qty uint32) {
	order, exists := b.orders[id]
	if !exists {
		return
	}

	before := order.quantity
	order.quantity = satSubU32(order.quantity, qty)
	reduced := before - order.quantity

	level := order.level
	level.quantity = satSubU64(level.quantity, uint64(reduced))

	if order.quantity == 0 {
		b.removeOrder(order)
		return
	}
	b.removeLevelIfEmpty(b.treeFor(order.side), level)
}

// removeOrder splices order out of its level and the order index, removing
// the level itself if it becomes empty.
func (b *OrderBook) removeOrder(order *bookOrder) {
	level := order.level
	level.orders.remove(order)
	level.quantity = satSubU64(level.quantity, uint64(order.quantity))
	delete(b.orders, order.id)
	order.level = nil

	b.removeLevelIfEmpty(b.treeFor(order.side), level)
}

func (b *OrderBook) removeLevelIfEmpty(tree *priceTree, level *priceLevel) {
	if level.quantity == 0 && level.orders.empty() {
		tree.Remove(level)
	}
}

// applySnapshot clears the book and installs every non-zero level from the
// snapshot. Per spec, orders is empty immediately after a snapshot — the
// snapshot carries only level aggregates, not per-order detail.
func (b *OrderBook) applySnapshot(v decode.SnapshotView) {
	b.bids = newPriceTree(true)
	b.asks = newPriceTree(false)
	b.orders = make(map[uint64]*bookOrder)

	for _, lvl := range v.Bids() {
		if lvl.Quantity == 0 {
			continue
		}
		level := newPriceLevel(lvl.Price)
		level.quantity = uint64(lvl.Quantity)
		b.bids.Insert(level)
	}
	for _, lvl := range v.Asks() {
		if lvl.Quantity == 0 {
			continue
		}
		level := newPriceLevel(lvl.Price)
		level.quantity = uint64(lvl.Quantity)
		b.asks.Insert(level)
	}
}

// BestBid returns the highest bid price and its aggregate quantity.
func (b *OrderBook) BestBid() (Level, bool) {
	lvl := b.bids.First()
	if lvl == nil {
		return Level{}, false
	}
	return Level{Price: lvl.price, Quantity: lvl.quantity}, true
}

// BestAsk returns the lowest ask price and its aggregate quantity.
func (b *OrderBook) BestAsk() (Level, bool) {
	lvl := b.asks.First()
	if lvl == nil {
		return Level{}, false
	}
	return Level{Price: lvl.price, Quantity: lvl.quantity}, true
}

// Spread returns ask - bid when both sides are populated and bid < ask.
// A crossed or locked market (bid >= ask) is representable in the book but
// reports no spread.
func (b *OrderBook) Spread() (uint64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk || bid.Price >= ask.Price {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// Depth returns up to n levels per side: bids descending, asks ascending.
func (b *OrderBook) Depth(n int) Depth {
	d := Depth{Bids: make([]Level, 0, n), Asks: make([]Level, 0, n)}
	if n <= 0 {
		return d
	}
	b.bids.ForEach(func(l *priceLevel) bool {
		d.Bids = append(d.Bids, Level{Price: l.price, Quantity: l.quantity})
		return len(d.Bids) < n
	})
	b.asks.ForEach(func(l *priceLevel) bool {
		d.Asks = append(d.Asks, Level{Price: l.price, Quantity: l.quantity})
		return len(d.Asks) < n
	})
	return d
}

// OrderCount returns the number of currently live orders.
func (b *OrderBook) OrderCount() int { return len(b.orders) }

// BidLevels returns the number of distinct bid price levels.
func (b *OrderBook) BidLevels() int { return b.bids.Size() }

// AskLevels returns the number of distinct ask price levels.
func (b *OrderBook) AskLevels() int { return b.asks.Size() }

// Order returns the live order with the given id, if any.
func (b *OrderBook) Order(id uint64) (Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return Order{}, false
	}
	return o.snapshot(), true
}

func satSubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func satSubU32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
