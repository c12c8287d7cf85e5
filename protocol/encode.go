package protocol

import "encoding/binary"

// Encoders produce wire frames in the exact byte-for-byte layout decode
// expects to read back — used by tests exercising the encode/decode
// round-trip property, and by the replay package to re-frame book state as
// a synthetic Snapshot message for recovery.

func putHeader(buf []byte, msgType MessageType, length uint16, sequence uint32) {
	buf[0] = byte(msgType)
	binary.LittleEndian.PutUint16(buf[1:3], length)
	binary.LittleEndian.PutUint32(buf[3:7], sequence)
	buf[7] = 0
}

// EncodeAddOrder returns the wire frame for an AddOrder message.
func EncodeAddOrder(sequence uint32, orderID uint64, price uint64, quantity uint32, side Side) []byte {
	buf := make([]byte, AddOrderSize)
	putHeader(buf, AddOrder, AddOrderSize, sequence)
	binary.LittleEndian.PutUint64(buf[OffOrderID:], orderID)
	binary.LittleEndian.PutUint64(buf[OffAddPrice:], price)
	binary.LittleEndian.PutUint32(buf[OffAddQuantity:], quantity)
	buf[OffAddSide] = byte(side)
	return buf
}

// EncodeModifyOrder returns the wire frame for a ModifyOrder message.
func EncodeModifyOrder(sequence uint32, orderID uint64, newQuantity uint32) []byte {
	buf := make([]byte, ModifyOrderSize)
	putHeader(buf, ModifyOrder, ModifyOrderSize, sequence)
	binary.LittleEndian.PutUint64(buf[OffOrderID:], orderID)
	binary.LittleEndian.PutUint32(buf[OffModQuantity:], newQuantity)
	return buf
}

// EncodeDeleteOrder returns the wire frame for a DeleteOrder message.
func EncodeDeleteOrder(sequence uint32, orderID uint64) []byte {
	buf := make([]byte, DeleteOrderSize)
	putHeader(buf, DeleteOrder, DeleteOrderSize, sequence)
	binary.LittleEndian.PutUint64(buf[OffOrderID:], orderID)
	return buf
}

// EncodeTrade returns the wire frame for a Trade message, at the
// TradeMinSize (38-byte) size (the decoder also accepts larger declared
// lengths; Encode always produces the canonical minimum).
func EncodeTrade(sequence uint32, buyerID, sellerID uint64, price uint64, quantity uint32) []byte {
	buf := make([]byte, TradeMinSize)
	putHeader(buf, Trade, TradeMinSize, sequence)
	binary.LittleEndian.PutUint64(buf[OffTradeBuyer:], buyerID)
	binary.LittleEndian.PutUint64(buf[OffTradeSeller:], sellerID)
	binary.LittleEndian.PutUint64(buf[OffTradePrice:], price)
	binary.LittleEndian.PutUint32(buf[OffTradeQty:], quantity)
	return buf
}

// SnapshotLevelValue is a (price, quantity) pair used to build a Snapshot
// frame.
type SnapshotLevelValue struct {
	Price    uint64
	Quantity uint32
}

// EncodeSnapshot returns the wire frame for a Snapshot message listing bids
// followed by asks, in the order given.
func EncodeSnapshot(sequence uint32, bids, asks []SnapshotLevelValue) []byte {
	total := SnapshotHeaderSize + (len(bids)+len(asks))*SnapshotLevelSize
	buf := make([]byte, total)
	putHeader(buf, Snapshot, uint16(total), sequence)
	binary.LittleEndian.PutUint32(buf[OffSnapNumBids:], uint32(len(bids)))
	binary.LittleEndian.PutUint32(buf[OffSnapNumAsks:], uint32(len(asks)))

	off := OffSnapLevels
	for _, lvl := range bids {
		binary.LittleEndian.PutUint64(buf[off+OffLevelPrice:], lvl.Price)
		binary.LittleEndian.PutUint32(buf[off+OffLevelQty:], lvl.Quantity)
		off += SnapshotLevelSize
	}
	for _, lvl := range asks {
		binary.LittleEndian.PutUint64(buf[off+OffLevelPrice:], lvl.Price)
		binary.LittleEndian.PutUint32(buf[off+OffLevelQty:], lvl.Quantity)
		off += SnapshotLevelSize
	}
	return buf
}
