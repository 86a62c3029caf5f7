package probemap

import (
	"encoding/binary"

	pmerrors "github.com/tamirms/probemap/errors"
)

const (
	// magic number for probemap snapshot files ("PMAP" in little-endian)
	snapshotMagic = uint32(0x504D4150)

	// snapshotVersion is the current snapshot format version
	snapshotVersion = uint16(0x0001)

	// snapshotHeaderSize is the exact size of the serialized header (40 bytes)
	snapshotHeaderSize = 40

	// snapshotChecksumSize is the xxhash64 footer appended after the entries
	snapshotChecksumSize = 8

	// maxSnapshotRecord bounds a single key or encoded value; record lengths
	// are stored as uint32
	maxSnapshotRecord = 1 << 31
)

// snapshotHeader is the 40-byte snapshot file header.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       4     Magic     0x504D4150 ("PMAP")
//	4       2     Version   0x0001
//	6       8     Capacity  uint64_le
//	14      8     Size      uint64_le (number of entry records that follow)
//	22      8     Seed      uint64_le
//	30      10    Reserved  [10]byte (zero)
//
// Entries follow as [KeyLen: uint32_le][Key][ValueLen: uint32_le][Value]
// records, then an 8-byte xxhash64 checksum of all preceding bytes.
type snapshotHeader struct {
	Magic    uint32
	Version  uint16
	Capacity uint64
	Size     uint64
	Seed     uint64
	Reserved [10]byte
}

// encodeTo serializes the header to an existing buffer.
func (h *snapshotHeader) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint64(buf[6:14], h.Capacity)
	binary.LittleEndian.PutUint64(buf[14:22], h.Size)
	binary.LittleEndian.PutUint64(buf[22:30], h.Seed)
	copy(buf[30:40], h.Reserved[:])
}

// decodeSnapshotHeader parses and validates a 40-byte header.
func decodeSnapshotHeader(buf []byte) (*snapshotHeader, error) {
	if len(buf) < snapshotHeaderSize {
		return nil, pmerrors.ErrTruncatedSnapshot
	}

	h := &snapshotHeader{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Version:  binary.LittleEndian.Uint16(buf[4:6]),
		Capacity: binary.LittleEndian.Uint64(buf[6:14]),
		Size:     binary.LittleEndian.Uint64(buf[14:22]),
		Seed:     binary.LittleEndian.Uint64(buf[22:30]),
	}
	copy(h.Reserved[:], buf[30:40])

	if h.Magic != snapshotMagic {
		return nil, pmerrors.ErrInvalidMagic
	}
	if h.Version != snapshotVersion {
		return nil, pmerrors.ErrInvalidVersion
	}
	if h.Capacity == 0 {
		return nil, pmerrors.ErrCorruptedSnapshot
	}
	return h, nil
}
