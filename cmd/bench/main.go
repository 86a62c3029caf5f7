// Bench is a benchmarking tool for measuring probemap insert, lookup, and
// delete throughput.
//
// Usage:
//
//	go run ./cmd/bench -keys 1000000 -tables 4 -hasher xxh64
//
// Flags:
//
//	-keys     Number of keys per table (default: 1,000,000)
//	-tables   Number of tables populated in parallel (default: 1)
//	-hasher   Hash function: xxh64, xxh3, or murmur3 (default: xxh64)
//	-seed     Hash seed, 0 for the library default (default: 0)
//	-cap      Initial table capacity (default: 1024)
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/probemap"
	pmerrors "github.com/tamirms/probemap/errors"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024 // Convert KB to bytes on Linux
	}
	return maxRSS
}

func main() {
	keysFlag := flag.Int("keys", 1_000_000, "number of keys per table")
	tablesFlag := flag.Int("tables", 1, "number of tables populated in parallel")
	hasherFlag := flag.String("hasher", "xxh64", "hash function: xxh64, xxh3, or murmur3")
	seedFlag := flag.Uint64("seed", 0, "hash seed (0 = library default)")
	capFlag := flag.Int("cap", 1024, "initial table capacity")
	flag.Parse()

	var opts []probemap.Option
	switch *hasherFlag {
	case "xxh64":
		// library default
	case "xxh3":
		opts = append(opts, probemap.WithHasher(probemap.HasherXXH3))
	case "murmur3":
		opts = append(opts, probemap.WithHasher(probemap.HasherMurmur3))
	default:
		fmt.Fprintf(os.Stderr, "unknown hasher %q\n", *hasherFlag)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		opts = append(opts, probemap.WithSeed(*seedFlag))
	}

	numKeys := *keysFlag
	numTables := *tablesFlag

	fmt.Println("Generating keys...")
	keys := make([][]byte, numKeys)
	var ctr [8]byte
	for i := range keys {
		binary.LittleEndian.PutUint64(ctr[:], uint64(i))
		lo, hi := murmur3.Sum128(ctr[:])
		key := make([]byte, 16)
		binary.LittleEndian.PutUint64(key[:8], lo)
		binary.LittleEndian.PutUint64(key[8:], hi)
		keys[i] = key
	}

	// Each goroutine owns its table exclusively for the whole run; tables
	// are never accessed from more than one goroutine at a time.
	tables := make([]*probemap.Map, numTables)

	fmt.Printf("Inserting %d keys into %d table(s)...\n", numKeys, numTables)
	insertStart := time.Now()
	var g errgroup.Group
	for t := range numTables {
		g.Go(func() error {
			m, err := probemap.New(*capFlag, opts...)
			if err != nil {
				return err
			}
			for i, key := range keys {
				if _, err := m.Insert(key, uint64(i)); err != nil {
					return err
				}
			}
			tables[t] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "insert failed: %v\n", err)
		os.Exit(1)
	}
	insertDur := time.Since(insertStart)

	fmt.Println("Looking up all keys...")
	var lookupGroup errgroup.Group
	lookupStart := time.Now()
	for t := range numTables {
		lookupGroup.Go(func() error {
			m := tables[t]
			for i, key := range keys {
				v, err := m.Get(key)
				if err != nil {
					return fmt.Errorf("get key %d: %w", i, err)
				}
				if v.(uint64) != uint64(i) {
					return fmt.Errorf("key %d: wrong value %v", i, v)
				}
			}
			return nil
		})
	}
	if err := lookupGroup.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}
	lookupDur := time.Since(lookupStart)

	fmt.Println("Deleting half the keys...")
	var deleteGroup errgroup.Group
	deleteStart := time.Now()
	for t := range numTables {
		deleteGroup.Go(func() error {
			m := tables[t]
			for i := 0; i < numKeys; i += 2 {
				removed, err := m.Delete(keys[i])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("key %d: not removed", i)
				}
			}
			// Deleted keys must now miss, surviving keys must still hit.
			for i := 0; i < numKeys; i++ {
				_, err := m.Get(keys[i])
				if i%2 == 0 && !errors.Is(err, pmerrors.ErrNotFound) {
					return fmt.Errorf("key %d: expected miss, got %v", i, err)
				}
				if i%2 == 1 && err != nil {
					return fmt.Errorf("key %d: expected hit, got %v", i, err)
				}
			}
			return nil
		})
	}
	if err := deleteGroup.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "delete failed: %v\n", err)
		os.Exit(1)
	}
	deleteDur := time.Since(deleteStart)

	totalOps := float64(numKeys * numTables)
	fmt.Printf("\nInsert: %v (%.0f keys/sec)\n", insertDur, totalOps/insertDur.Seconds())
	fmt.Printf("Lookup: %v (%.0f keys/sec)\n", lookupDur, totalOps/lookupDur.Seconds())
	fmt.Printf("Delete+verify: %v\n", deleteDur)
	fmt.Printf("Peak RSS: %.1f MB\n", float64(getMaxRSS())/(1024*1024))
}
