package replay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"feedbook/book"
	"feedbook/decode"
	"feedbook/protocol"
)

// snapshotMagic is written at the start of every snapshot file so that
// corrupt or foreign files are rejected quickly.
var snapshotMagic = [8]byte{'F', 'B', 'S', 'N', 'A', 'P', 0, 1}

// Snapshotter manages zstd-compressed, disk-backed checkpoints of an order
// book's level state inside a directory.
//
// These checkpoints are an operational convenience for fast restart; they
// are never the feed's authoritative source of truth — a venue-sent wire
// Snapshot message always supersedes them once received.
type Snapshotter struct {
	dir string
}

// NewSnapshotter creates a Snapshotter that stores files in dir, creating
// dir if it does not exist.
func NewSnapshotter(dir string) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Snapshotter{dir: dir}, nil
}

func (s *Snapshotter) snapshotPath(ts int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("snapshot-%d.snap", ts))
}

// Save writes depth, an already-captured snapshot of a book's level state,
// to a zstd-compressed file at the given timestamp. The file is written
// atomically: data is first flushed to a temp file and then renamed, so a
// crash mid-write never leaves a corrupt snapshot behind.
//
// depth must be captured by the caller (typically under the same lock that
// guards concurrent Apply calls) before Save is invoked — Save itself does
// no synchronization and performs no live book traversal.
func (s *Snapshotter) Save(depth book.Depth, timestamp int64) error {
	frame := protocol.EncodeSnapshot(0, toSnapshotValues(depth.Bids), toSnapshotValues(depth.Asks))

	dst := s.snapshotPath(timestamp)
	tmp := dst + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := writeSnapshotFile(enc, timestamp, frame); err != nil {
		_ = enc.Close()
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// maxLevels bounds how many price levels a snapshot file captures per side.
// Large enough that no realistic book is truncated in practice.
const maxLevels = 1 << 20

func toSnapshotValues(levels []book.Level) []protocol.SnapshotLevelValue {
	out := make([]protocol.SnapshotLevelValue, len(levels))
	for i, l := range levels {
		out[i] = protocol.SnapshotLevelValue{Price: l.Price, Quantity: uint32(l.Quantity)}
	}
	return out
}

func writeSnapshotFile(w io.Writer, timestamp int64, frame []byte) error {
	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return err
	}
	header := encodeRecord(Record{Timestamp: timestamp, Frame: frame})
	_, err := w.Write(header)
	return err
}

// LoadedSnapshot is the deserialized content of one snapshot file.
type LoadedSnapshot struct {
	Timestamp int64
	View      decode.SnapshotView
}

// LoadLatest finds the most recent snapshot in the directory and decodes
// it back into a Snapshot wire view. It returns nil (with no error) when
// no snapshot exists yet.
func (s *Snapshotter) LoadLatest() (*LoadedSnapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var timestamps []int64
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "snapshot-") || !strings.HasSuffix(name, ".snap") {
			continue
		}
		tsStr := strings.TrimSuffix(strings.TrimPrefix(name, "snapshot-"), ".snap")
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	if len(timestamps) == 0 {
		return nil, nil
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] > timestamps[j] })

	f, err := os.Open(s.snapshotPath(timestamps[0]))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var magic [8]byte
	if _, err := io.ReadFull(dec, magic[:]); err != nil {
		return nil, fmt.Errorf("replay: reading snapshot magic: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("replay: invalid snapshot magic")
	}

	record, err := decodeRecord(dec)
	if err != nil {
		return nil, fmt.Errorf("replay: reading snapshot record: %w", err)
	}

	view, _, err := decode.Decoder{}.Decode(record.Frame)
	if err != nil {
		return nil, fmt.Errorf("replay: decoding snapshot frame: %w", err)
	}
	snapView, ok := view.(decode.SnapshotView)
	if !ok {
		return nil, fmt.Errorf("replay: snapshot file did not decode to a Snapshot message")
	}

	return &LoadedSnapshot{Timestamp: record.Timestamp, View: snapView}, nil
}
