package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// keyVersion is bumped whenever the cached encoding or the sizing cost model
// changes, so stale entries are never read back.
const keyVersion = "v1"

// SimulationKeyOpts are the inputs that determine a simulation's outcome.
type SimulationKeyOpts struct {
	Trials     int    `json:"trials"`
	Ranks      int    `json:"ranks"`
	Elements   int    `json:"elements"`
	Seed       uint64 `json:"seed"`
	Population any    `json:"population"`
}

// ChartKeyOpts are the inputs that determine a rendered chart.
type ChartKeyOpts struct {
	Format string `json:"format"`
	Bins   int    `json:"bins"`
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SimulationKey returns the key for a simulation result.
	SimulationKey(opts SimulationKeyOpts) string

	// ChartKey returns the key for a chart rendered from the result whose
	// content hash is resultHash.
	ChartKey(resultHash string, opts ChartKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SimulationKey implements Keyer.
func (DefaultKeyer) SimulationKey(opts SimulationKeyOpts) string {
	return hashKey("simulation:"+keyVersion, opts)
}

// ChartKey implements Keyer.
func (DefaultKeyer) ChartKey(resultHash string, opts ChartKeyOpts) string {
	return hashKey("chart:"+keyVersion, resultHash, opts)
}
