package recovery

import (
	"errors"
	"testing"

	"feedbook/decode"
	"feedbook/protocol"
)

func mustDecode(t *testing.T, buf []byte) decode.View {
	t.Helper()
	view, _, err := decode.Decoder{}.Decode(buf)
	if err != nil {
		t.Fatalf("decode returned error: %v", err)
	}
	return view
}

func TestNeedsRecoveryBeforeFirstSnapshot(t *testing.T) {
	m := New()
	if !m.NeedsRecovery() {
		t.Errorf("expected NeedsRecovery() to be true before any snapshot")
	}
}

func TestApplySnapshotRejectsNonSnapshotView(t *testing.T) {
	m := New()
	view := mustDecode(t, protocol.EncodeAddOrder(1, 1, 100, 10, protocol.Bid))
	if err := m.ApplySnapshot(view); !errors.Is(err, ErrNotASnapshot) {
		t.Errorf("ApplySnapshot(non-snapshot) error = %v, want ErrNotASnapshot", err)
	}
}

// TestStaleUpdateRejected is P8: after apply_snapshot(S), every
// apply_update(u) with u.sequence <= S.sequence is rejected.
func TestStaleUpdateRejected(t *testing.T) {
	m := New()
	snapView := mustDecode(t, protocol.EncodeSnapshot(10, nil, nil))
	if err := m.ApplySnapshot(snapView); err != nil {
		t.Fatalf("ApplySnapshot returned error: %v", err)
	}

	for _, seq := range []uint32{1, 9, 10} {
		view := mustDecode(t, protocol.EncodeAddOrder(seq, uint64(seq), 100, 10, protocol.Bid))
		if err := m.ApplyUpdate(view); !errors.Is(err, ErrStaleUpdate) {
			t.Errorf("ApplyUpdate(seq=%d) error = %v, want ErrStaleUpdate", seq, err)
		}
	}

	freshView := mustDecode(t, protocol.EncodeAddOrder(11, 11, 100, 10, protocol.Bid))
	if err := m.ApplyUpdate(freshView); err != nil {
		t.Errorf("ApplyUpdate(seq=11) returned error: %v, want nil", err)
	}
}

// TestGapThenSnapshotScenario is end-to-end scenario 6: sequences 1,2,5
// (gap 3-4), then a Snapshot at seq=10 with two bid levels; the book must
// match the snapshot exactly, apply_update(seq=7) is stale, and
// apply_update(seq=11) succeeds.
func TestGapThenSnapshotScenario(t *testing.T) {
	m := New()

	for _, seq := range []uint32{1, 2, 5} {
		view := mustDecode(t, protocol.EncodeAddOrder(seq, uint64(seq), 100, 1, protocol.Bid))
		if err := m.ApplyUpdate(view); err != nil {
			t.Fatalf("ApplyUpdate(seq=%d) returned error: %v", seq, err)
		}
	}

	snapBuf := protocol.EncodeSnapshot(10,
		[]protocol.SnapshotLevelValue{{Price: 9900000000, Quantity: 10}, {Price: 9800000000, Quantity: 20}},
		nil,
	)
	snapView := mustDecode(t, snapBuf)
	if err := m.ApplySnapshot(snapView); err != nil {
		t.Fatalf("ApplySnapshot returned error: %v", err)
	}

	if m.Book().BidLevels() != 2 {
		t.Errorf("BidLevels() = %d, want 2", m.Book().BidLevels())
	}
	bid, ok := m.Book().BestBid()
	if !ok || bid.Price != 9900000000 || bid.Quantity != 10 {
		t.Errorf("BestBid() = %+v, %v; want (9900000000, 10), true", bid, ok)
	}

	staleView := mustDecode(t, protocol.EncodeAddOrder(7, 700, 100, 1, protocol.Bid))
	if err := m.ApplyUpdate(staleView); !errors.Is(err, ErrStaleUpdate) {
		t.Errorf("ApplyUpdate(seq=7) error = %v, want ErrStaleUpdate", err)
	}

	freshView := mustDecode(t, protocol.EncodeAddOrder(11, 1100, 100, 1, protocol.Bid))
	if err := m.ApplyUpdate(freshView); err != nil {
		t.Errorf("ApplyUpdate(seq=11) returned error: %v, want nil", err)
	}
}

func TestReset(t *testing.T) {
	m := New()
	snapView := mustDecode(t, protocol.EncodeSnapshot(10, nil, nil))
	if err := m.ApplySnapshot(snapView); err != nil {
		t.Fatalf("ApplySnapshot returned error: %v", err)
	}
	m.Reset()

	if !m.NeedsRecovery() {
		t.Errorf("expected NeedsRecovery() to be true after Reset")
	}
	view := mustDecode(t, protocol.EncodeAddOrder(1, 1, 100, 10, protocol.Bid))
	if err := m.ApplyUpdate(view); err != nil {
		t.Errorf("ApplyUpdate after Reset returned error: %v, want nil", err)
	}
}
