// Package probemap implements a byte-string-keyed hash table using open
// addressing with double hashing, automatic capacity growth, and
// tombstone-based deletion.
//
// Keys are copied into the table on insert; values are opaque references
// that the caller continues to own. The load factor is kept below 1/2 by
// doubling capacity ahead of inserts, which keeps expected probe lengths
// short. Each table instance assumes a single owner; no method is safe for
// concurrent use.
//
// # Basic Usage
//
//	m, err := probemap.New(64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := m.Insert([]byte("alpha"), record); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := m.Get([]byte("alpha"))
//	if errors.Is(err, pmerrors.ErrNotFound) {
//	    // absent
//	}
//
//	removed, err := m.Delete([]byte("alpha"))
//
// The hash function is pluggable:
//
//	m, err := probemap.New(64,
//	    probemap.WithHasher(probemap.HasherMurmur3),
//	    probemap.WithSeed(0xC0FFEE))
//
// # Snapshots
//
// A table's entries can be persisted and reloaded. Values are encoded by a
// caller-supplied function since the table does not own them:
//
//	err := m.WriteSnapshot("table.pmap", func(v any) ([]byte, error) {
//	    return []byte(v.(string)), nil
//	})
//
//	m, err := probemap.LoadSnapshot("table.pmap", func(b []byte) (any, error) {
//	    return string(b), nil
//	})
//
// # Package Structure
//
//   - Core table: map.go (New, Insert, Get, Delete, Clear), probe.go (double hashing)
//   - Hash collaborators: hasher.go (HasherXXH64, HasherXXH3, HasherMurmur3)
//   - Configuration: options.go (Option, With* functions)
//   - Snapshots: header.go (file format), snapshot.go (WriteSnapshot),
//     restore.go (LoadSnapshot, OpenSnapshotBytes)
//   - Platform: fallocate_*.go (disk preallocation)
package probemap
