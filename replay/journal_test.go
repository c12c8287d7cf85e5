package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"feedbook/protocol"
)

func TestJournalAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.journal")

	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}

	frames := [][]byte{
		protocol.EncodeAddOrder(1, 1, 100, 10, protocol.Bid),
		protocol.EncodeModifyOrder(2, 1, 5),
		protocol.EncodeDeleteOrder(3, 1),
	}
	for i, f := range frames {
		if err := j.Append(int64(i+1), f); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadJournal(path)
	if err != nil {
		t.Fatalf("ReadJournal: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("ReadJournal: got %d records, want %d", len(got), len(frames))
	}
	for i, f := range frames {
		if got[i].Timestamp != int64(i+1) {
			t.Errorf("[%d] Timestamp = %d, want %d", i, got[i].Timestamp, i+1)
		}
		if string(got[i].Frame) != string(f) {
			t.Errorf("[%d] Frame mismatch", i)
		}
	}
}

func TestReadJournalMissingFile(t *testing.T) {
	records, err := ReadJournal(filepath.Join(t.TempDir(), "does-not-exist.journal"))
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if records != nil {
		t.Fatalf("expected nil records for missing file, got: %v", records)
	}
}

func TestJournalFlushTimer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flush.journal")

	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	defer j.Close()

	if err := j.Append(time.Now().UnixNano(), protocol.EncodeDeleteOrder(1, 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// The flush timer fires every 10 ms; wait long enough to let it trigger.
	time.Sleep(50 * time.Millisecond)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty journal file after flush timer")
	}
}

func TestJournalTruncatedTailIsTolerated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.journal")

	full := encodeRecord(Record{Timestamp: 1, Frame: protocol.EncodeDeleteOrder(1, 1)})
	partial := full[:len(full)-3] // chop off the tail, as a crash mid-write would

	if err := os.WriteFile(path, partial, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	records, err := ReadJournal(path)
	if err != nil {
		t.Fatalf("ReadJournal: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadJournal = %+v, want no records from a truncated tail", records)
	}
}
