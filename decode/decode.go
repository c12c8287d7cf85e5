// Package decode implements the zero-copy wire decoder described by
// protocol: it projects a typed, read-only View onto a prefix of a caller-
// owned byte buffer without copying payload bytes or allocating on the
// decode path.
//
// A View aliases the buffer passed to Decode. The buffer must remain live
// and unmodified for as long as any View derived from it is in use —
// exactly the "scoped read-only projection" contract the protocol was
// designed around. Decoder itself holds no state and is safe to share.
package decode

import (
	"encoding/binary"

	"feedbook/protocol"
)

// View is a typed, read-only projection of one decoded message. Every
// implementation aliases the buffer it was decoded from; none of them copy
// the payload.
type View interface {
	Sequence() uint32
	Type() protocol.MessageType
}

type header struct {
	buf []byte
}

func (h header) Sequence() uint32 {
	return binary.LittleEndian.Uint32(h.buf[3:7])
}

func (h header) Type() protocol.MessageType {
	return protocol.MessageType(h.buf[0])
}

func (h header) length() uint16 {
	return binary.LittleEndian.Uint16(h.buf[1:3])
}

// AddOrderView projects an AddOrder message.
type AddOrderView struct{ header }

func (v AddOrderView) OrderID() uint64 {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffOrderID:])
}

func (v AddOrderView) Price() protocol.Price {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffAddPrice:])
}

func (v AddOrderView) Quantity() uint32 {
	return binary.LittleEndian.Uint32(v.buf[protocol.OffAddQuantity:])
}

func (v AddOrderView) Side() protocol.Side {
	return protocol.Side(v.buf[protocol.OffAddSide])
}

// ModifyOrderView projects a ModifyOrder message.
type ModifyOrderView struct{ header }

func (v ModifyOrderView) OrderID() uint64 {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffOrderID:])
}

func (v ModifyOrderView) NewQuantity() uint32 {
	return binary.LittleEndian.Uint32(v.buf[protocol.OffModQuantity:])
}

// DeleteOrderView projects a DeleteOrder message.
type DeleteOrderView struct{ header }

func (v DeleteOrderView) OrderID() uint64 {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffOrderID:])
}

// TradeView projects a Trade message.
type TradeView struct{ header }

func (v TradeView) BuyerID() uint64 {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffTradeBuyer:])
}

func (v TradeView) SellerID() uint64 {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffTradeSeller:])
}

func (v TradeView) Price() protocol.Price {
	return binary.LittleEndian.Uint64(v.buf[protocol.OffTradePrice:])
}

func (v TradeView) Quantity() uint32 {
	return binary.LittleEndian.Uint32(v.buf[protocol.OffTradeQty:])
}

// SnapshotLevel is one (price, quantity) entry of a snapshot's level array.
type SnapshotLevel struct {
	Price    protocol.Price
	Quantity uint32
}

// SnapshotView projects a Snapshot message. Decode copies no level data;
// the level array stays in the backing buffer until Bids or Asks reads it.
type SnapshotView struct {
	header
	numBids uint32
	numAsks uint32
}

func (v SnapshotView) NumBids() uint32 { return v.numBids }
func (v SnapshotView) NumAsks() uint32 { return v.numAsks }

// levelAt reads the i'th level (0-indexed across the combined bid+ask
// array) without copying: it reads two fields live out of the buffer.
func (v SnapshotView) levelAt(i uint32) SnapshotLevel {
	off := protocol.OffSnapLevels + int(i)*protocol.SnapshotLevelSize
	return SnapshotLevel{
		Price:    binary.LittleEndian.Uint64(v.buf[off+protocol.OffLevelPrice:]),
		Quantity: binary.LittleEndian.Uint32(v.buf[off+protocol.OffLevelQty:]),
	}
}

// Bids returns the num_bids levels that precede the ask levels, read from
// the buffer into a newly allocated slice.
func (v SnapshotView) Bids() []SnapshotLevel {
	out := make([]SnapshotLevel, v.numBids)
	for i := range out {
		out[i] = v.levelAt(uint32(i))
	}
	return out
}

// Asks returns the num_asks levels that follow the bid levels, read from
// the buffer into a newly allocated slice.
func (v SnapshotView) Asks() []SnapshotLevel {
	out := make([]SnapshotLevel, v.numAsks)
	for i := range out {
		out[i] = v.levelAt(v.numBids + uint32(i))
	}
	return out
}

// Decoder decodes raw byte buffers into typed Views. Decoder holds no
// state and a zero Decoder is ready to use.
type Decoder struct{}

// Decode inspects a prefix of buf and returns a View plus the number of
// bytes consumed. No byte of the payload is copied; the returned View
// aliases buf and must not outlive it.
func (Decoder) Decode(buf []byte) (View, int, error) {
	if len(buf) < protocol.HeaderSize {
		return nil, 0, &BufferTooSmall{Need: protocol.HeaderSize, Have: len(buf)}
	}

	tag := buf[0]
	msgType := protocol.MessageType(tag)
	if !msgType.Valid() {
		return nil, 0, &InvalidMessageType{Tag: tag}
	}

	length := int(binary.LittleEndian.Uint16(buf[1:3]))
	if length < protocol.HeaderSize || length > len(buf) {
		return nil, 0, &TruncatedMessage{Declared: length, Actual: len(buf)}
	}

	msg := buf[:length]
	h := header{buf: msg}

	switch msgType {
	case protocol.AddOrder:
		if length < protocol.AddOrderSize {
			return nil, 0, &BufferTooSmall{Need: protocol.AddOrderSize, Have: length}
		}
		return AddOrderView{h}, length, nil

	case protocol.ModifyOrder:
		if length < protocol.ModifyOrderSize {
			return nil, 0, &BufferTooSmall{Need: protocol.ModifyOrderSize, Have: length}
		}
		return ModifyOrderView{h}, length, nil

	case protocol.DeleteOrder:
		if length < protocol.DeleteOrderSize {
			return nil, 0, &BufferTooSmall{Need: protocol.DeleteOrderSize, Have: length}
		}
		return DeleteOrderView{h}, length, nil

	case protocol.Trade:
		if length < protocol.TradeMinSize {
			return nil, 0, &BufferTooSmall{Need: protocol.TradeMinSize, Have: length}
		}
		return TradeView{h}, length, nil

	case protocol.Snapshot:
		if length < protocol.SnapshotHeaderSize {
			return nil, 0, &BufferTooSmall{Need: protocol.SnapshotHeaderSize, Have: length}
		}
		numBids := binary.LittleEndian.Uint32(msg[protocol.OffSnapNumBids:])
		numAsks := binary.LittleEndian.Uint32(msg[protocol.OffSnapNumAsks:])
		need := protocol.SnapshotHeaderSize + int(numBids+numAsks)*protocol.SnapshotLevelSize
		if length != need {
			return nil, 0, &TruncatedMessage{Declared: length, Actual: need}
		}
		return SnapshotView{header: h, numBids: numBids, numAsks: numAsks}, length, nil
	}

	// unreachable: msgType.Valid() already rejected anything else.
	return nil, 0, &InvalidMessageType{Tag: tag}
}

// DecodeStream repeatedly decodes messages from buf, invoking cb for each
// one. It stops cleanly when the remaining tail is smaller than a header —
// that is the normal end-of-stream condition, not an error — stops when cb
// returns false, and propagates any structural decode error.
func (d Decoder) DecodeStream(buf []byte, cb func(View) (bool, error)) (int, error) {
	count := 0
	for len(buf) > 0 {
		if len(buf) < protocol.HeaderSize {
			break
		}
		view, consumed, err := d.Decode(buf)
		if err != nil {
			return count, err
		}
		cont, err := cb(view)
		if err != nil {
			return count, err
		}
		count++
		if !cont {
			break
		}
		buf = buf[consumed:]
	}
	return count, nil
}
