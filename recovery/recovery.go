// Package recovery gates incremental book updates against the most
// recently applied snapshot, so that a feed delivering both a snapshot
// channel and an incremental-update channel never double-applies an event
// the snapshot already reflects.
package recovery

import (
	"errors"
	"fmt"

	"feedbook/book"
	"feedbook/decode"
)

// ErrStaleUpdate is returned by ApplyUpdate when the update's sequence
// number is at or before the last applied snapshot's sequence number — it
// is already reflected in book state and must not be re-applied.
var ErrStaleUpdate = errors.New("recovery: stale update")

// ErrNotASnapshot is returned by ApplySnapshot when given a view that is
// not a Snapshot message.
var ErrNotASnapshot = errors.New("recovery: expected a snapshot message")

// Manager owns a book and gates incremental updates against the sequence
// number of the last snapshot applied to it.
type Manager struct {
	book            *book.OrderBook
	lastSnapshotSeq uint32
	hasSnapshot     bool
}

// New returns a Manager wrapping a freshly created, empty book.
func New() *Manager {
	return &Manager{book: book.New()}
}

// Book returns the underlying order book.
func (m *Manager) Book() *book.OrderBook {
	return m.book
}

// NeedsRecovery reports whether no snapshot has ever been applied.
func (m *Manager) NeedsRecovery() bool {
	return !m.hasSnapshot
}

// ApplySnapshot applies view (which must be a Snapshot) to the book and
// records its sequence number as the new recovery watermark.
func (m *Manager) ApplySnapshot(view decode.View) error {
	snap, ok := view.(decode.SnapshotView)
	if !ok {
		return ErrNotASnapshot
	}
	if err := m.book.Apply(snap); err != nil {
		return fmt.Errorf("recovery: applying snapshot: %w", err)
	}
	m.lastSnapshotSeq = snap.Sequence()
	m.hasSnapshot = true
	return nil
}

// ApplyUpdate applies an incremental update to the book, rejecting it with
// ErrStaleUpdate if its sequence number is already covered by the last
// applied snapshot.
func (m *Manager) ApplyUpdate(view decode.View) error {
	if m.hasSnapshot && view.Sequence() <= m.lastSnapshotSeq {
		return ErrStaleUpdate
	}
	return m.book.Apply(view)
}

// Reset discards the book and recovery watermark, returning the Manager to
// its just-constructed state.
func (m *Manager) Reset() {
	m.book = book.New()
	m.hasSnapshot = false
	m.lastSnapshotSeq = 0
}
