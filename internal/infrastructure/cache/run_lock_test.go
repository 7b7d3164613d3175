package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		lock := NewInMemoryRunLock()

		ok, err := lock.Acquire(ctx, "seed", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.Acquire(ctx, "seed", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "second acquire must fail while held")

		require.NoError(t, lock.Release(ctx, "seed"))

		ok, err = lock.Acquire(ctx, "seed", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("independent names", func(t *testing.T) {
		lock := NewInMemoryRunLock()

		ok, _ := lock.Acquire(ctx, "seed", time.Minute)
		assert.True(t, ok)
		ok, _ = lock.Acquire(ctx, "clean", time.Minute)
		assert.True(t, ok)
	})

	t.Run("expired lock can be re-acquired", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		current := time.Now()
		lock.nowFunc = func() time.Time { return current }

		ok, _ := lock.Acquire(ctx, "seed", time.Minute)
		require.True(t, ok)

		current = current.Add(2 * time.Minute)
		ok, err := lock.Acquire(ctx, "seed", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
