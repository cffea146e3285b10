// Package cache stores rendered diagrams and artifacts between runs.
//
// # Overview
//
// Composing a diagram is cheap, but rasterising it through rsvg-convert is
// not, and the HTTP API sees the same topology many times. This package
// provides a small byte-oriented [Cache] interface with interchangeable
// backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a spec string such as "file", "none",
// "redis://localhost:6379/0" or "mongodb://localhost:27017/railmap".
//
// # Keys
//
// A [Keyer] derives keys from the render inputs. [DefaultKeyer] hashes the
// options so any change produces a new key; [ScopedKeyer] adds a prefix so
// several consumers can share one backend.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. The boolean is false on a
	// miss, which is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and reports how many were removed, or -1
	// when the backend cannot tell.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys from render inputs.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of a diagram.
	// inputHash is the hash of the topology and geometry parameters.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Names      bool    `json:"names,omitempty"`
	NoStations bool    `json:"no_stations,omitempty"`
	Background string  `json:"background,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Runs       bool    `json:"runs,omitempty"`
}

// DefaultKeyer builds keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
