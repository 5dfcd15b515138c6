// Package testutil connects integration tests to the local test Postgres and Redis.
// Tests skip when either is unreachable.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/config"
	"github.com/Zxen1/Events-Platform-sub002/internal/database"
	"github.com/Zxen1/Events-Platform-sub002/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func SetupDatabase() (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	return pool, pool.Close, nil
}

// SetupRedisOnly initializes only Redis, for tests that do not need Postgres.
func SetupRedisOnly() (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	cleanup := func() { _ = rdb.Close() }
	return rdb, cleanup, nil
}

// Database returns a migrated test pool or skips the test.
func Database(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	pool, cleanup, err := SetupDatabase()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(cleanup)
	return pool
}

// Redis returns a test client or skips the test.
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	rdb, cleanup, err := SetupRedisOnly()
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(cleanup)
	return rdb
}
