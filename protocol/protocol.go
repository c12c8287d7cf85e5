// Package protocol defines the wire format for the order-book feed: message
// type tags, the fixed 8-byte header, and the per-type payload layouts.
//
// All multi-byte integers are little-endian. Layouts are densely packed as
// documented — no implementation-defined alignment padding beyond the
// explicit padding bytes each layout calls out.
package protocol

// HeaderSize is the size in bytes of the fixed message header, present at
// the start of every message.
const HeaderSize = 8

// Side identifies which side of the book an order sits on.
type Side uint8

const (
	// Bid is the buy side. On the wire: 0.
	Bid Side = 0
	// Ask is the sell side. On the wire: 1.
	Ask Side = 1
)

// String returns the human-readable name of a Side.
func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the two documented wire values.
func (s Side) Valid() bool {
	return s == Bid || s == Ask
}

// MessageType identifies the kind of message a frame carries.
type MessageType uint8

const (
	// AddOrder introduces a new resting order.
	AddOrder MessageType = 1
	// ModifyOrder changes the quantity of an existing order.
	ModifyOrder MessageType = 2
	// DeleteOrder removes an existing order.
	DeleteOrder MessageType = 3
	// Trade reports an execution between two (possibly unknown) orders.
	Trade MessageType = 4
	// Snapshot is a full book replacement used for resynchronization.
	Snapshot MessageType = 5
)

// String returns the human-readable name of a MessageType.
func (t MessageType) String() string {
	switch t {
	case AddOrder:
		return "ADD_ORDER"
	case ModifyOrder:
		return "MODIFY_ORDER"
	case DeleteOrder:
		return "DELETE_ORDER"
	case Trade:
		return "TRADE"
	case Snapshot:
		return "SNAPSHOT"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is one of the five known message types.
func (t MessageType) Valid() bool {
	switch t {
	case AddOrder, ModifyOrder, DeleteOrder, Trade, Snapshot:
		return true
	default:
		return false
	}
}

// Price is a fixed-point price: the integer value is price * 10^8. The core
// never performs floating-point arithmetic on prices.
type Price = uint64

// PriceScale is the fixed-point scale factor applied to every Price.
const PriceScale = 1e8

// Per-type total message sizes (header included), per the wire layout table.
const (
	// AddOrderSize is the fixed total size of an AddOrder message.
	AddOrderSize = 46
	// ModifyOrderSize is the fixed total size of a ModifyOrder message.
	ModifyOrderSize = 26
	// DeleteOrderSize is the fixed total size of a DeleteOrder message.
	DeleteOrderSize = 16
	// TradeMinSize is the minimum size of a Trade message: header, buyer,
	// seller and price (8 bytes each), quantity (4 bytes) and 2 bytes of
	// padding, so that the quantity field at OffTradeQty fits in the frame.
	//
	// As for every other type, the decoder treats any declared length
	// >= TradeMinSize as valid and ignores the trailing slack.
	TradeMinSize = 38
	// SnapshotHeaderSize is the fixed size of the snapshot header, before
	// the variable-length level arrays.
	SnapshotHeaderSize = 16
	// SnapshotLevelSize is the fixed size of one bid/ask level entry in a
	// Snapshot message.
	SnapshotLevelSize = 16
)

// Field offsets, counted from the start of the message (header included).
const (
	OffOrderID      = 8
	OffAddPrice     = 16
	OffAddQuantity  = 24
	OffAddSide      = 28
	OffModQuantity  = 16
	OffTradeBuyer   = 8
	OffTradeSeller  = 16
	OffTradePrice   = 24
	OffTradeQty     = 32
	OffSnapNumBids  = 8
	OffSnapNumAsks  = 12
	OffSnapLevels   = 16
	OffLevelPrice   = 0
	OffLevelQty     = 8
)
