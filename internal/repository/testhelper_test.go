package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bankacem/ExtensionTo-CMS/internal/sharding"
)

const testShardCount = 3

// TestShards holds one container hosting every shard database, plus the
// shard set built over them.
type TestShards struct {
	Shards    *sharding.ShardSet
	Pools     []*pgxpool.Pool
	Container testcontainers.Container
}

// SetupTestShards creates a PostgreSQL container, provisions one database
// per shard inside it, and applies the migrations to each. One container
// with several databases stands in for several physical shard servers; the
// routing code only ever sees a pool per DSN either way.
func SetupTestShards(t *testing.T) *TestShards {
	t.Helper()
	ctx := context.Background()

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("admindb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	adminConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to get connection string: %v", err)
	}

	adminPool, err := pgxpool.New(ctx, adminConnStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to connect to admin database: %v", err)
	}

	pools := make([]*pgxpool.Pool, 0, testShardCount)
	for i := 0; i < testShardCount; i++ {
		name := fmt.Sprintf("shard_%d", i)
		if _, err := adminPool.Exec(ctx, "CREATE DATABASE "+name); err != nil {
			adminPool.Close()
			_ = pgContainer.Terminate(ctx)
			t.Fatalf("Failed to create %s: %v", name, err)
		}

		connStr := strings.Replace(adminConnStr, "/admindb?", "/"+name+"?", 1)

		m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), connStr)
		if err != nil {
			adminPool.Close()
			_ = pgContainer.Terminate(ctx)
			t.Fatalf("Failed to create migrate instance for %s: %v", name, err)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			adminPool.Close()
			_ = pgContainer.Terminate(ctx)
			t.Fatalf("Failed to migrate %s: %v", name, err)
		}
		m.Close()

		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			adminPool.Close()
			_ = pgContainer.Terminate(ctx)
			t.Fatalf("Failed to create pool for %s: %v", name, err)
		}
		pools = append(pools, pool)
	}
	adminPool.Close()

	shards, err := sharding.NewShardSet(pools, 5*time.Second)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to build shard set: %v", err)
	}

	return &TestShards{
		Shards:    shards,
		Pools:     pools,
		Container: pgContainer,
	}
}

// Cleanup closes every pool and terminates the container.
func (ts *TestShards) Cleanup(t *testing.T) {
	t.Helper()
	ts.Shards.Close()
	if ts.Container != nil {
		if err := ts.Container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// TruncateAll clears the given tables on every shard for test isolation.
func (ts *TestShards) TruncateAll(t *testing.T, tables ...string) {
	t.Helper()
	ctx := context.Background()
	for i, pool := range ts.Pools {
		for _, table := range tables {
			if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				t.Fatalf("Failed to truncate %s on shard %d: %v", table, i, err)
			}
		}
	}
}

// CountOnShard returns the number of rows in the table on one shard.
func (ts *TestShards) CountOnShard(t *testing.T, shard int, table string) int {
	t.Helper()
	var n int
	err := ts.Pools[shard].QueryRow(context.Background(),
		fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows on shard %d: %v", shard, err)
	}
	return n
}
