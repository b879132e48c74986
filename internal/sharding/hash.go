// Package sharding maps post slugs onto a fixed set of backing databases and
// provides single-shard routing plus scatter-gather reads across all shards.
package sharding

import (
	"fmt"
	"unicode/utf16"
)

// Hash32 computes a DJB2 hash of the key over its UTF-16 code units,
// accumulated in a 32-bit signed integer with wraparound. The wraparound
// semantics are load-bearing: shard placement of existing rows depends on
// them, so the arithmetic must stay int32.
func Hash32(key string) int32 {
	var hash int32 = 5381
	for _, unit := range utf16.Encode([]rune(key)) {
		hash = (hash << 5) + hash + int32(unit)
	}
	return hash
}

// ShardIndex reduces the key's hash to a shard index in [0, n).
// The absolute value is taken in 64-bit space so math.MinInt32 cannot
// negate into itself.
func ShardIndex(key string, n int) int {
	h := int64(Hash32(key))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// Router deterministically assigns shard keys to one of a fixed number of
// shards. The zero value is unusable; construct with NewRouter.
type Router struct {
	shardCount int
}

// NewRouter creates a Router over n shards. A zero shard count is a
// configuration error: no valid placement exists.
func NewRouter(n int) (*Router, error) {
	if n < 1 {
		return nil, fmt.Errorf("shard count must be at least 1, got %d", n)
	}
	return &Router{shardCount: n}, nil
}

// Route returns the shard index for the given key.
func (r *Router) Route(key string) int {
	return ShardIndex(key, r.shardCount)
}

// ShardCount returns the number of shards the router was built for.
func (r *Router) ShardCount() int {
	return r.shardCount
}
