package replay

import (
	"math/rand"

	"feedbook/protocol"
)

// Generator produces a synthetic stream of framed wire messages with
// monotonically increasing sequence numbers, for exercising decode/book/
// gapdetect/recovery without a live venue connection.
//
// It tracks a minimal mirror of book state (live order IDs per side) so
// that the Modify/Delete/Trade messages it emits reference orders it has
// added, the same way the sample message builders in the example ITCH demo
// construct a coherent stream. Only DeleteOrder removes an ID from that
// mirror: an order modified to quantity 0 or exhausted by a Trade stays in
// it, so later frames may reference an order the book has already removed.
type Generator struct {
	rng *rand.Rand

	seq       uint32
	nextOrder uint64
	liveBids  []uint64
	liveAsks  []uint64

	// GapProbability is the chance, in [0,1), that the next emitted
	// message's sequence number skips ahead by one or more, simulating
	// upstream message loss. Zero disables gap injection.
	GapProbability float64
}

// NewGenerator returns a Generator seeded from seed, starting at sequence 1.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		seq:       0,
		nextOrder: 1,
	}
}

func (g *Generator) nextSeq() uint32 {
	g.seq++
	if g.GapProbability > 0 && g.rng.Float64() < g.GapProbability {
		g.seq += uint32(1 + g.rng.Intn(3))
	}
	return g.seq
}

// AddOrder emits a random AddOrder frame on a random side and records the
// new order as live so later calls may reference it.
func (g *Generator) AddOrder() []byte {
	id := g.nextOrder
	g.nextOrder++

	side := protocol.Bid
	if g.rng.Intn(2) == 1 {
		side = protocol.Ask
	}
	price := uint64(9000+g.rng.Intn(2000)) * protocol.PriceScale / 100
	qty := uint32(1 + g.rng.Intn(500))

	if side == protocol.Bid {
		g.liveBids = append(g.liveBids, id)
	} else {
		g.liveAsks = append(g.liveAsks, id)
	}

	return protocol.EncodeAddOrder(g.nextSeq(), id, price, qty, side)
}

// ModifyOrder emits a ModifyOrder frame against a live order, if any exist.
// Returns nil if no order is currently live.
func (g *Generator) ModifyOrder() []byte {
	id, ok := g.pickLive()
	if !ok {
		return nil
	}
	qty := uint32(g.rng.Intn(500))
	return protocol.EncodeModifyOrder(g.nextSeq(), id, qty)
}

// DeleteOrder emits a DeleteOrder frame against a live order and forgets
// it. Returns nil if no order is currently live.
func (g *Generator) DeleteOrder() []byte {
	id, ok := g.takeLive()
	if !ok {
		return nil
	}
	return protocol.EncodeDeleteOrder(g.nextSeq(), id)
}

// Trade emits a Trade frame referencing two live orders (or zero IDs if
// none are live, which is itself a valid, if uninteresting, Trade frame).
func (g *Generator) Trade() []byte {
	buyer, _ := g.pickLive()
	seller, _ := g.pickLive()
	price := uint64(9000+g.rng.Intn(2000)) * protocol.PriceScale / 100
	qty := uint32(1 + g.rng.Intn(100))
	return protocol.EncodeTrade(g.nextSeq(), buyer, seller, price, qty)
}

// Snapshot emits a Snapshot frame built from flat, synthetic bid/ask
// ladders rather than the generator's own live-order bookkeeping — a real
// venue snapshot is an independent resynchronization point, not a
// derivative of the incremental stream.
func (g *Generator) Snapshot(levelsPerSide int) []byte {
	bids := make([]protocol.SnapshotLevelValue, levelsPerSide)
	asks := make([]protocol.SnapshotLevelValue, levelsPerSide)
	for i := 0; i < levelsPerSide; i++ {
		bids[i] = protocol.SnapshotLevelValue{
			Price:    uint64(10000-i) * protocol.PriceScale / 100,
			Quantity: uint32(100 + i),
		}
		asks[i] = protocol.SnapshotLevelValue{
			Price:    uint64(10001+i) * protocol.PriceScale / 100,
			Quantity: uint32(100 + i),
		}
	}
	return protocol.EncodeSnapshot(g.nextSeq(), bids, asks)
}

func (g *Generator) pickLive() (uint64, bool) {
	all := append(append([]uint64{}, g.liveBids...), g.liveAsks...)
	if len(all) == 0 {
		return 0, false
	}
	return all[g.rng.Intn(len(all))], true
}

func (g *Generator) takeLive() (uint64, bool) {
	if len(g.liveBids) > 0 && (len(g.liveAsks) == 0 || g.rng.Intn(2) == 0) {
		i := g.rng.Intn(len(g.liveBids))
		id := g.liveBids[i]
		g.liveBids = append(g.liveBids[:i], g.liveBids[i+1:]...)
		return id, true
	}
	if len(g.liveAsks) > 0 {
		i := g.rng.Intn(len(g.liveAsks))
		id := g.liveAsks[i]
		g.liveAsks = append(g.liveAsks[:i], g.liveAsks[i+1:]...)
		return id, true
	}
	return 0, false
}
