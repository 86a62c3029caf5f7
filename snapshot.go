package probemap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	pmerrors "github.com/tamirms/probemap/errors"
)

// ValueEncoder serializes a stored value reference for a snapshot. The table
// never owns values and cannot know their wire form, so the caller supplies
// the encoding.
type ValueEncoder func(value any) ([]byte, error)

// ValueDecoder reverses a ValueEncoder when loading a snapshot. It must not
// return a nil value with a nil error.
type ValueDecoder func(data []byte) (any, error)

// WriteSnapshot persists the table's live entries to path in the format
// described in header.go. Disk space is preallocated before any bytes are
// written, and the file is fsynced before WriteSnapshot returns.
//
// The snapshot records the table's seed but not its hash function; the
// matching hasher must be passed to LoadSnapshot. Entry order in the file is
// slot order and carries no meaning: loading rebuilds placement from scratch.
func (m *Map) WriteSnapshot(path string, enc ValueEncoder) error {
	// Encode all values up front so sizing and length checks happen before
	// any bytes hit the file.
	type record struct {
		key, value []byte
	}
	records := make([]record, 0, m.size)
	total := int64(snapshotHeaderSize + snapshotChecksumSize)
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != slotOccupied {
			continue
		}
		encoded, err := enc(s.value)
		if err != nil {
			return fmt.Errorf("encode value for key %q: %w", s.key, err)
		}
		if len(s.key) >= maxSnapshotRecord || len(encoded) >= maxSnapshotRecord {
			return pmerrors.ErrSnapshotRecordLimit
		}
		records = append(records, record{key: s.key, value: encoded})
		total += int64(8 + len(s.key) + len(encoded))
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	if err := fallocateFile(f, total); err != nil {
		return fmt.Errorf("preallocate snapshot file: %w", err)
	}

	digest := xxhash.New()
	bufw := bufio.NewWriter(f)
	w := io.MultiWriter(bufw, digest)

	hdr := snapshotHeader{
		Magic:    snapshotMagic,
		Version:  snapshotVersion,
		Capacity: uint64(len(m.slots)),
		Size:     uint64(m.size),
		Seed:     m.seed,
	}
	var hbuf [snapshotHeaderSize]byte
	hdr.encodeTo(hbuf[:])
	if _, err := w.Write(hbuf[:]); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	var lenbuf [4]byte
	for _, rec := range records {
		binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(rec.key)))
		if _, err := w.Write(lenbuf[:]); err != nil {
			return fmt.Errorf("write snapshot entry: %w", err)
		}
		if _, err := w.Write(rec.key); err != nil {
			return fmt.Errorf("write snapshot entry: %w", err)
		}
		binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(rec.value)))
		if _, err := w.Write(lenbuf[:]); err != nil {
			return fmt.Errorf("write snapshot entry: %w", err)
		}
		if _, err := w.Write(rec.value); err != nil {
			return fmt.Errorf("write snapshot entry: %w", err)
		}
	}

	// Checksum covers header and entries; it is not part of its own input.
	var sumbuf [snapshotChecksumSize]byte
	binary.LittleEndian.PutUint64(sumbuf[:], digest.Sum64())
	if _, err := bufw.Write(sumbuf[:]); err != nil {
		return fmt.Errorf("write snapshot checksum: %w", err)
	}
	if err := bufw.Flush(); err != nil {
		return fmt.Errorf("flush snapshot file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync snapshot file: %w", err)
	}
	return nil
}
