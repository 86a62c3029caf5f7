package probemap

import (
	"bytes"

	pmerrors "github.com/tamirms/probemap/errors"
)

// growthFactor is the capacity multiplier applied on each resize.
const growthFactor = 2

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// slot is one cell of the open-addressing array. Occupied slots hold the
// table's own copy of the key and the caller's value reference; Empty and
// Tombstone slots hold neither.
type slot struct {
	key   []byte
	value any
	state slotState
}

// Map is a byte-string-keyed hash table using open addressing with double
// hashing. Collisions are resolved by probing alternate slots (see
// probeIndex); deleted entries leave tombstones that keep probe sequences
// intact until the next resize discards them.
//
// The table keeps the load factor below 1/2 by doubling capacity before an
// insert would reach it, which keeps expected probe lengths short.
//
// Keys are copied on insert; the table never aliases caller-owned key
// memory. Values are caller-owned references: the table never copies,
// mutates, or otherwise manages them.
//
// A Map must have exactly one owner: no internal synchronization is
// provided, and no method is safe for concurrent use.
type Map struct {
	slots  []slot
	size   int // count of Occupied slots, always < len(slots)
	hasher Hasher
	seed   uint64
}

// New creates a table with the given initial capacity.
// Returns ErrInvalidCapacity if initialCapacity is not positive.
func New(initialCapacity int, opts ...Option) (*Map, error) {
	if initialCapacity <= 0 {
		return nil, pmerrors.ErrInvalidCapacity
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Map{
		slots:  make([]slot, initialCapacity),
		hasher: cfg.hasher,
		seed:   cfg.seed,
	}, nil
}

// Len returns the number of live entries.
func (m *Map) Len() int { return m.size }

// Cap returns the current slot-array capacity.
func (m *Map) Cap() int { return len(m.slots) }

// hashKey computes the base hash consumed by probeIndex. A nil key maps to 0
// by convention; exported operations reject nil keys before reaching here.
func (m *Map) hashKey(key []byte) uint64 {
	if key == nil {
		return 0
	}
	return m.hasher(key, m.seed)
}

// Insert stores value under key. If the key is already present its value is
// replaced in place and the size does not change. The returned slice is the
// table's own copy of the key, valid until the key is removed; callers that
// want to avoid holding their own copy may retain it, but must not modify it.
//
// Returns ErrNilKey or ErrNilValue without touching the table when either
// argument is nil.
func (m *Map) Insert(key []byte, value any) ([]byte, error) {
	if key == nil {
		return nil, pmerrors.ErrNilKey
	}
	if value == nil {
		return nil, pmerrors.ErrNilValue
	}

	// Grow before placement so size stays strictly below half of capacity.
	// This also guarantees the probe below reaches an Empty slot.
	if m.size >= len(m.slots)/growthFactor {
		m.grow()
	}

	k := m.hashKey(key)
	for {
		stored, inserted, ok := claimSlot(m.slots, k, key, value, true)
		if ok {
			if inserted {
				m.size++
			}
			return stored, nil
		}
		// The probe orbit for this key is fully occupied by other keys,
		// which is possible when the step size shares a factor with the
		// capacity. Growing changes the orbit geometry.
		m.grow()
	}
}

// claimSlot probes slots for key's home. On a key match the value is
// replaced and the slot's owned key is returned with inserted=false.
// Otherwise the first reusable (Empty or Tombstone) slot seen during the
// probe is claimed; the search continues past tombstones first, so a key
// present later in the sequence is updated rather than duplicated. When
// copyKey is false the key's ownership transfers to the slot without
// copying, which is the rehash path.
//
// ok=false means the probe visited its full orbit without finding a match
// or a reusable slot; the caller must change the table geometry and retry.
func claimSlot(slots []slot, k uint64, key []byte, value any, copyKey bool) (storedKey []byte, inserted, ok bool) {
	n := uint64(len(slots))
	reuse := -1

	for r := uint64(0); r < n; r++ {
		i := probeIndex(k, r, n)
		s := &slots[i]
		switch s.state {
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				s.value = value
				return s.key, false, true
			}
		case slotTombstone:
			if reuse < 0 {
				reuse = int(i)
			}
		case slotEmpty:
			// End of the probe sequence: the key is absent. Prefer a
			// tombstone seen earlier so removals are reclaimed eagerly.
			target := s
			if reuse >= 0 {
				target = &slots[reuse]
			}
			return fillSlot(target, key, value, copyKey), true, true
		}
	}

	if reuse >= 0 {
		return fillSlot(&slots[reuse], key, value, copyKey), true, true
	}
	return nil, false, false
}

func fillSlot(s *slot, key []byte, value any, copyKey bool) []byte {
	owned := key
	if copyKey {
		owned = append([]byte(nil), key...)
	}
	s.key = owned
	s.value = value
	s.state = slotOccupied
	return owned
}

// grow rehashes every live entry into an array of at least twice the current
// capacity. Key ownership moves to the new array without copying, and
// tombstones are dropped, which is how removals are finally reclaimed. The
// table's fields are swapped only after the new array is fully populated, so
// a partially rehashed table is never observable.
func (m *Map) grow() {
	newCap := growthFactor * len(m.slots)
	for {
		newSlots := make([]slot, newCap)
		if rehashInto(newSlots, m) {
			m.slots = newSlots
			return
		}
		// A probe orbit in the new geometry was too short to place some
		// entry. Cannot happen at sane load factors, but guard rather
		// than loop forever.
		newCap *= growthFactor
	}
}

func rehashInto(newSlots []slot, m *Map) bool {
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if _, _, ok := claimSlot(newSlots, m.hashKey(s.key), s.key, s.value, false); !ok {
			return false
		}
	}
	return true
}

// Get returns the value stored under key.
// A miss reports ErrNotFound; a nil key reports ErrNilKey.
func (m *Map) Get(key []byte) (any, error) {
	if key == nil {
		return nil, pmerrors.ErrNilKey
	}

	k := m.hashKey(key)
	n := uint64(len(m.slots))
	for r := uint64(0); r < n; r++ {
		s := &m.slots[probeIndex(k, r, n)]
		switch s.state {
		case slotEmpty:
			return nil, pmerrors.ErrNotFound
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				return s.value, nil
			}
		}
		// Tombstones and foreign keys keep the probe going.
	}
	return nil, pmerrors.ErrNotFound
}

// Delete removes key from the table, reporting whether an entry was removed.
// The slot becomes a tombstone rather than Empty so that probe sequences of
// keys inserted past it stay intact. A nil key reports ErrNilKey.
func (m *Map) Delete(key []byte) (bool, error) {
	if key == nil {
		return false, pmerrors.ErrNilKey
	}

	k := m.hashKey(key)
	n := uint64(len(m.slots))
	for r := uint64(0); r < n; r++ {
		s := &m.slots[probeIndex(k, r, n)]
		switch s.state {
		case slotEmpty:
			return false, nil
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				s.key = nil
				s.value = nil
				s.state = slotTombstone
				m.size--
				return true, nil
			}
		}
	}
	return false, nil
}

// Clear removes every entry while keeping the current capacity. All key and
// value references are dropped immediately rather than waiting for the next
// resize, so long-lived tables release what they hold.
func (m *Map) Clear() {
	clear(m.slots)
	m.size = 0
}
