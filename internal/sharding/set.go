package sharding

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/bankacem/ExtensionTo-CMS/internal/metrics"
)

// DefaultShardTimeout bounds each individual shard call inside a broadcast.
const DefaultShardTimeout = 5 * time.Second

// ShardSet owns the connection pools for all configured shards. It is built
// once at startup and injected wherever shard access is needed; the pool
// slice is never mutated afterwards.
type ShardSet struct {
	pools   []*pgxpool.Pool
	router  *Router
	timeout time.Duration
}

// NewShardSet creates a ShardSet over the given pools. Fails fast when no
// pools are configured.
func NewShardSet(pools []*pgxpool.Pool, timeout time.Duration) (*ShardSet, error) {
	router, err := NewRouter(len(pools))
	if err != nil {
		return nil, fmt.Errorf("create shard router: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultShardTimeout
	}
	return &ShardSet{pools: pools, router: router, timeout: timeout}, nil
}

// Len returns the number of shards.
func (s *ShardSet) Len() int {
	return len(s.pools)
}

// RouteTo returns the home shard pool for the given key.
func (s *ShardSet) RouteTo(key string) *pgxpool.Pool {
	return s.pools[s.router.Route(key)]
}

// RouteIndex returns the home shard index for the given key.
func (s *ShardSet) RouteIndex(key string) int {
	return s.router.Route(key)
}

// Shard returns the pool at a specific index. Extensions and other unsharded
// catalogs are pinned this way.
func (s *ShardSet) Shard(i int) *pgxpool.Pool {
	return s.pools[i]
}

// Ping checks every shard; unhealthy shards are reported by index.
func (s *ShardSet) Ping(ctx context.Context) error {
	for i, pool := range s.pools {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("shard %d unreachable: %w", i, err)
		}
	}
	return nil
}

// Close closes every shard pool.
func (s *ShardSet) Close() {
	for _, pool := range s.pools {
		pool.Close()
	}
}

// Broadcast runs fn against every shard concurrently and concatenates the
// per-shard results in shard-index order. Each shard call gets its own
// timeout; any single failure aborts the whole broadcast, since a partial
// merge silently missing one shard's rows is worse than an error.
func Broadcast[T any](ctx context.Context, s *ShardSet, op string, fn func(ctx context.Context, shard int, pool *pgxpool.Pool) ([]T, error)) ([]T, error) {
	timer := metrics.NewTimer()
	perShard := make([][]T, len(s.pools))

	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range s.pools {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			rows, err := fn(callCtx, i, pool)
			if err != nil {
				metrics.RecordShardQuery(i, op, "error")
				return fmt.Errorf("shard %d: %w", i, err)
			}
			metrics.RecordShardQuery(i, op, "ok")
			perShard[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ObserveBroadcast(op, "error", timer.Elapsed())
		return nil, err
	}

	var merged []T
	for _, rows := range perShard {
		merged = append(merged, rows...)
	}
	metrics.ObserveBroadcast(op, "ok", timer.Elapsed())
	return merged, nil
}

// BroadcastExec runs a write against every shard concurrently, for operations
// like delete-by-id where the home shard is unknown. All-or-nothing, same as
// Broadcast.
func BroadcastExec(ctx context.Context, s *ShardSet, op string, fn func(ctx context.Context, shard int, pool *pgxpool.Pool) error) error {
	_, err := Broadcast(ctx, s, op, func(ctx context.Context, shard int, pool *pgxpool.Pool) ([]struct{}, error) {
		return nil, fn(ctx, shard, pool)
	})
	return err
}
