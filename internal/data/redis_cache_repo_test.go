package data

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/records-ui/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestRedisCacheRepo_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupTestRedis(t)
	defer client.Close()

	runCacheContract(t, NewRedisCacheRepo(client))
}

func TestRedisCacheRepo_TTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set applies ttl", func(t *testing.T) {
		ttl := 5 * time.Minute
		require.NoError(t, repo.Set(ctx, "records:ttl:page", []byte("v"), ttl))

		actual := client.TTL(ctx, "records:ttl:page").Val()
		assert.True(t, actual > 0 && actual <= ttl)
	})

	t.Run("set if not exists applies ttl", func(t *testing.T) {
		set, err := repo.SetIfNotExists(ctx, "records:ttl:gen", []byte("g"), time.Minute)
		require.NoError(t, err)
		require.True(t, set)

		actual := client.TTL(ctx, "records:ttl:gen").Val()
		assert.True(t, actual > 0 && actual <= time.Minute)
	})

	t.Run("set if not exists without ttl persists", func(t *testing.T) {
		set, err := repo.SetIfNotExists(ctx, "records:ttl:forever", []byte("g"), 0)
		require.NoError(t, err)
		require.True(t, set)

		// -1 means the key has no associated expire.
		assert.Equal(t, time.Duration(-1), client.TTL(ctx, "records:ttl:forever").Val())
	})
}
