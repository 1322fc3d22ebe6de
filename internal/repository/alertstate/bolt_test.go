package alertstate

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
)

// openTestDB opens a throwaway bbolt database in a temporary directory.
func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return db
}

// TestGetOrCreate verifies lazy creation and subsequent reads of the record.
func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	repo := NewBoltRepository(openTestDB(t))
	ctx := context.Background()

	def := &domain.Alert{
		Message:   "Situasi sudah aman.",
		UpdatedAt: time.Now().UTC(),
	}

	created, err := repo.GetOrCreate(ctx, def)
	require.NoError(t, err)
	require.False(t, created.Active)
	require.Nil(t, created.Level)

	// A later default must not overwrite the stored record.
	level := "AWAS"
	stored := &domain.Alert{
		Active:    true,
		Level:     &level,
		Message:   "Peringatan darurat.",
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, stored))

	got, err := repo.GetOrCreate(ctx, def)
	require.NoError(t, err)
	require.True(t, got.Active)
	require.NotNil(t, got.Level)
	require.Equal(t, "AWAS", *got.Level)
}

// TestGetOrCreate_Concurrent asserts concurrent first accesses converge on one record.
func TestGetOrCreate_Concurrent(t *testing.T) {
	t.Parallel()

	repo := NewBoltRepository(openTestDB(t))
	ctx := context.Background()

	const workers = 16

	var wg sync.WaitGroup

	results := make([]*domain.Alert, workers)

	for i := 0; i < workers; i++ {
		i := i

		wg.Add(1)

		go func() {
			defer wg.Done()

			def := &domain.Alert{
				Message:   "Situasi sudah aman.",
				UpdatedAt: time.Now().UTC(),
			}

			got, err := repo.GetOrCreate(ctx, def)
			require.NoError(t, err)
			results[i] = got
		}()
	}

	wg.Wait()

	stored, err := repo.Load(ctx)
	require.NoError(t, err)

	for _, got := range results {
		require.Equal(t, stored.Message, got.Message)
		require.False(t, got.Active)
	}
}

// TestSaveLoadRoundtrip checks that level and timestamp survive persistence.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	repo := NewBoltRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	level := "SIAGA"
	updatedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, &domain.Alert{
		Active:    true,
		Level:     &level,
		Message:   "Aktivitas meningkat.",
		UpdatedAt: updatedAt,
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, got.Active)
	require.Equal(t, "SIAGA", *got.Level)
	require.Equal(t, updatedAt, got.UpdatedAt)
}
