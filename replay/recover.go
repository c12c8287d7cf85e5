package replay

import (
	"fmt"

	"feedbook/decode"
	"feedbook/recovery"
)

// Recover restores mgr to its last known state by:
//  1. Loading the most recent snapshot from snapshotDir (if any) and
//     applying it.
//  2. Replaying every journal record in journalPath whose timestamp is
//     strictly greater than the snapshot's timestamp.
//
// mgr must be a freshly constructed, empty recovery.Manager. If neither a
// snapshot nor a journal exists, Recover is a no-op.
func Recover(mgr *recovery.Manager, journalPath, snapshotDir string) error {
	sp, err := NewSnapshotter(snapshotDir)
	if err != nil {
		return fmt.Errorf("replay: opening snapshot dir: %w", err)
	}

	snap, err := sp.LoadLatest()
	if err != nil {
		return fmt.Errorf("replay: loading snapshot: %w", err)
	}

	var snapshotTS int64
	if snap != nil {
		if err := mgr.ApplySnapshot(snap.View); err != nil {
			return fmt.Errorf("replay: applying snapshot: %w", err)
		}
		snapshotTS = snap.Timestamp
	}

	records, err := ReadJournal(journalPath)
	if err != nil {
		return fmt.Errorf("replay: reading journal: %w", err)
	}

	for _, rec := range records {
		if rec.Timestamp <= snapshotTS {
			continue
		}
		view, _, err := decode.Decoder{}.Decode(rec.Frame)
		if err != nil {
			return fmt.Errorf("replay: decoding journal record at ts=%d: %w", rec.Timestamp, err)
		}
		if err := mgr.ApplyUpdate(view); err != nil {
			return fmt.Errorf("replay: replaying record at ts=%d: %w", rec.Timestamp, err)
		}
	}

	return nil
}
