package probemap

// probePrime is the fixed offset added to the secondary hash. It keeps the
// step size nonzero, so the probe sequence can never degenerate to a single
// repeated slot.
const probePrime = 37

// probeIndex maps a base hash k to a slot index in [0, m) for probe round r
// using double hashing:
//
//	h1 = k mod m
//	h2 = probePrime + (k mod (m - probePrime))
//	index = (h1 + r*h2) mod m
//
// Varying r from 0 upward yields a deterministic sequence of candidate slots
// whose step size depends on the key, avoiding the clustering of linear
// probing. For capacities of probePrime or below the h2 formula has no room,
// so the step falls back to 1 + (k mod (m-1)): still key-dependent, still
// never zero mod m. m must be positive.
func probeIndex(k, r, m uint64) uint64 {
	h1 := k % m

	var h2 uint64
	switch {
	case m > probePrime:
		h2 = probePrime + k%(m-probePrime)
	case m > 1:
		h2 = 1 + k%(m-1)
	default:
		return 0
	}

	return (h1 + r*h2) % m
}
