// Package cache stores filter outputs keyed by input content and options.
//
// A filter run over a large graph6 file is deterministic: the same input and
// the same predicate selection always produce the same output. The pipeline
// hashes the input, derives a key with a [Keyer], and replays the stored
// output on a hit instead of evaluating every graph again.
//
// Three backends are provided: [FileCache] for the CLI (one JSON file per
// entry under the user cache directory), [RedisCache] for sharing results
// across machines, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultTTL is how long filter results are kept unless configured otherwise.
const DefaultTTL = 30 * 24 * time.Hour

// KeyTypeFilter labels filter-result entries in cache hooks and metrics.
const KeyTypeFilter = "filter"

// FilterKeyOpts are the options that change a filter run's output.
type FilterKeyOpts struct {
	Predicates []string `json:"predicates"`

	// Parameters of the parameterized predicates.
	Extension      int `json:"extension"`
	CommonNeighbor int `json:"common_neighbor"`

	ShardRes int `json:"shard_res"`
	ShardMod int `json:"shard_mod"`
}

// Keyer derives cache keys.
type Keyer interface {
	// FilterKey returns the key for the output of filtering the input with
	// the given content hash under opts.
	FilterKey(inputHash string, opts FilterKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "filter:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FilterKey implements Keyer.
func (DefaultKeyer) FilterKey(inputHash string, opts FilterKeyOpts) string {
	return hashKey(KeyTypeFilter, inputHash, opts)
}

// Entry describes a stored filter result. It is serialized next to the
// output so a hit can report what produced it. Output holds graph6 text,
// which is printable ASCII, so it is kept as a string rather than base64.
type Entry struct {
	RunID    string         `json:"run_id"`
	Read     int            `json:"read"`
	Accepted int            `json:"accepted"`
	Rejected map[string]int `json:"rejected,omitempty"`
	Output   string         `json:"output"`
	StoredAt time.Time      `json:"stored_at"`
}

// String returns a short description for logs.
func (e Entry) String() string {
	return fmt.Sprintf("run %s: %d/%d accepted", e.RunID, e.Accepted, e.Read)
}
