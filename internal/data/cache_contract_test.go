package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/records-ui/internal/core"
)

// runCacheContract exercises behaviour every core.CacheRepository must share.
func runCacheContract(t *testing.T, repo core.CacheRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "records:job_roles:g1:page:1", []byte(`{"data":[]}`), time.Minute))

		got, err := repo.Get(ctx, "records:job_roles:g1:page:1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"data":[]}`), got)
	})

	t.Run("get missing key", func(t *testing.T) {
		got, err := repo.Get(ctx, "records:missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "records:delete:me", []byte("x"), time.Minute))

		deleted, err := repo.Delete(ctx, "records:delete:me")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "records:delete:me")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "records:exists")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, repo.Set(ctx, "records:exists", []byte("1"), 0))

		exists, err = repo.Exists(ctx, "records:exists")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("set if not exists", func(t *testing.T) {
		set, err := repo.SetIfNotExists(ctx, "records:posts:gen", []byte("first"), 0)
		require.NoError(t, err)
		assert.True(t, set)

		set, err = repo.SetIfNotExists(ctx, "records:posts:gen", []byte("second"), 0)
		require.NoError(t, err)
		assert.False(t, set)

		got, err := repo.Get(ctx, "records:posts:gen")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("empty key", func(t *testing.T) {
		require.ErrorIs(t, repo.Set(ctx, "", []byte("v"), time.Minute), ErrEmptyKey)
		_, err := repo.Get(ctx, "")
		require.ErrorIs(t, err, ErrEmptyKey)
		_, err = repo.Delete(ctx, "")
		require.ErrorIs(t, err, ErrEmptyKey)
		_, err = repo.Exists(ctx, "")
		require.ErrorIs(t, err, ErrEmptyKey)
		_, err = repo.SetIfNotExists(ctx, "", []byte("v"), time.Minute)
		require.ErrorIs(t, err, ErrEmptyKey)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.Health(ctx))
	})
}
