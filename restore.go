package probemap

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	pmerrors "github.com/tamirms/probemap/errors"
)

// LoadSnapshot rebuilds a table from a snapshot written by WriteSnapshot.
// The file is memory-mapped read-only for the duration of the load and
// released before LoadSnapshot returns; keys are copied out by insertion.
//
// The seed recorded in the snapshot is applied automatically; opts may
// override it and must include the WithHasher used at write time when the
// table was not built with the default hasher. Slot positions are
// capacity-dependent, so every entry's placement is recomputed by normal
// insertion rather than restored from the file.
func LoadSnapshot(path string, dec ValueDecoder, opts ...Option) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat snapshot file: %w", err)
	}
	if stat.Size() < snapshotHeaderSize+snapshotChecksumSize {
		return nil, pmerrors.ErrTruncatedSnapshot
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap snapshot file: %w", err)
	}
	defer mm.Unmap()

	return OpenSnapshotBytes([]byte(mm), dec, opts...)
}

// OpenSnapshotBytes rebuilds a table from an in-memory snapshot image.
// The caller may reuse or discard data afterwards; nothing in the returned
// Map aliases it.
func OpenSnapshotBytes(data []byte, dec ValueDecoder, opts ...Option) (*Map, error) {
	if len(data) < snapshotHeaderSize+snapshotChecksumSize {
		return nil, pmerrors.ErrTruncatedSnapshot
	}

	hdr, err := decodeSnapshotHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[:len(data)-snapshotChecksumSize]
	sum := binary.LittleEndian.Uint64(data[len(data)-snapshotChecksumSize:])
	if xxhash.Sum64(body) != sum {
		return nil, pmerrors.ErrChecksumFailed
	}

	// The recorded seed applies unless the caller overrides it.
	loadOpts := make([]Option, 0, len(opts)+1)
	loadOpts = append(loadOpts, WithSeed(hdr.Seed))
	loadOpts = append(loadOpts, opts...)

	m, err := New(int(hdr.Capacity), loadOpts...)
	if err != nil {
		return nil, err
	}

	entries := body[snapshotHeaderSize:]
	for i := uint64(0); i < hdr.Size; i++ {
		key, rest, err := readSnapshotRecord(entries)
		if err != nil {
			return nil, err
		}
		encoded, rest, err := readSnapshotRecord(rest)
		if err != nil {
			return nil, err
		}
		value, err := dec(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode value for key %q: %w", key, err)
		}
		if value == nil {
			return nil, pmerrors.ErrNilValue
		}
		if _, err := m.Insert(key, value); err != nil {
			return nil, err
		}
		entries = rest
	}
	if len(entries) != 0 {
		return nil, pmerrors.ErrCorruptedSnapshot
	}
	return m, nil
}

// readSnapshotRecord consumes one length-prefixed record from buf.
func readSnapshotRecord(buf []byte) (rec, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, pmerrors.ErrCorruptedSnapshot
	}
	n := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]
	if uint64(len(buf)) < uint64(n) {
		return nil, nil, pmerrors.ErrCorruptedSnapshot
	}
	return buf[:n], buf[n:], nil
}
