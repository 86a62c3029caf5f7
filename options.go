package probemap

// defaultSeed is an arbitrary fixed default; override via WithSeed.
const defaultSeed = uint64(0x9E3779B97F4A7C15)

// Option is a functional option for configuring a Map.
type Option func(*config)

type config struct {
	hasher Hasher
	seed   uint64
}

func defaultConfig() *config {
	return &config{
		hasher: HasherXXH64,
		seed:   defaultSeed,
	}
}

// WithHasher sets the hash function used to place keys. All operations on a
// table use the hasher it was created with; to reopen a snapshot the caller
// must pass the same hasher that wrote it.
func WithHasher(h Hasher) Option {
	return func(c *config) {
		c.hasher = h
	}
}

// WithSeed sets the hash seed.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}
