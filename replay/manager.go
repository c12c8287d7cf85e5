package replay

import (
	"fmt"
	"sync"
	"time"

	"feedbook/decode"
	"feedbook/protocol"
	"feedbook/recovery"
)

// Manager is the top-level replay facade. It wraps a recovery.Manager and
// ensures that every incremental update or snapshot it accepts is
// journalled before being applied, so a restart can always resume from
// disk rather than replaying the upstream feed from the beginning.
//
// Manager is safe for concurrent use: a single mutex serialises journal
// writes and book mutation so the two never drift out of order.
type Manager struct {
	mu      sync.Mutex
	rec     *recovery.Manager
	journal *Journal
	snaps   *Snapshotter
}

// NewManager opens (or creates) the journal at journalPath, initialises the
// snapshotter in snapshotDir, and returns a ready-to-use Manager wrapping a
// fresh recovery.Manager.
//
// Call Recover separately beforehand if prior on-disk state should be
// restored first.
func NewManager(journalPath, snapshotDir string) (*Manager, error) {
	j, err := OpenJournal(journalPath)
	if err != nil {
		return nil, fmt.Errorf("replay: opening journal: %w", err)
	}

	sp, err := NewSnapshotter(snapshotDir)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("replay: opening snapshotter: %w", err)
	}

	return &Manager{
		rec:     recovery.New(),
		journal: j,
		snaps:   sp,
	}, nil
}

// NewManagerFromRecovered wires journal/snapshot directories to an
// already-recovered recovery.Manager (typically one just populated by
// Recover), so subsequent updates continue to be journalled.
func NewManagerFromRecovered(rec *recovery.Manager, journalPath, snapshotDir string) (*Manager, error) {
	j, err := OpenJournal(journalPath)
	if err != nil {
		return nil, fmt.Errorf("replay: opening journal: %w", err)
	}

	sp, err := NewSnapshotter(snapshotDir)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("replay: opening snapshotter: %w", err)
	}

	return &Manager{rec: rec, journal: j, snaps: sp}, nil
}

// Apply journals frame and then applies view (decoded from frame) to the
// underlying recovery.Manager. The journal write happens under the same
// lock as book mutation so no book state change can occur without a prior
// journal entry.
func (m *Manager) Apply(view decode.View, frame []byte) error {
	ts := time.Now().UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.journal.Append(ts, frame); err != nil {
		return fmt.Errorf("replay: journalling frame: %w", err)
	}

	if view.Type() == protocol.Snapshot {
		return m.rec.ApplySnapshot(view)
	}
	return m.rec.ApplyUpdate(view)
}

// TakeSnapshot captures the current book state in a background goroutine.
//
// Copy-on-write: the manager lock is held only long enough to walk the book
// and copy its current depth (microseconds); the actual file write happens
// against that already-copied, immutable value, without holding the lock,
// off the hot path.
//
// errCh receives exactly one value when the background goroutine finishes.
// Callers that do not care about the result may pass nil.
func (m *Manager) TakeSnapshot(errCh chan<- error) {
	m.mu.Lock()
	depth := m.rec.Book().Depth(maxLevels)
	m.mu.Unlock()

	ts := time.Now().UnixNano()
	go func() {
		err := m.snaps.Save(depth, ts)
		if errCh != nil {
			errCh <- err
		}
	}()
}

// Recovery returns the underlying recovery.Manager. Direct calls against it
// bypass journalling.
func (m *Manager) Recovery() *recovery.Manager {
	return m.rec
}

// Close flushes the journal and releases its resources.
func (m *Manager) Close() error {
	return m.journal.Close()
}
