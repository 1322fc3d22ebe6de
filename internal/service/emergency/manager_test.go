package emergency

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
)

var errTestStore = errors.New("test store error")

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	mu sync.Mutex
	// state is the stored alert record, nil until created.
	state *domain.Alert
	// saveErr is the error to return from Save operations.
	saveErr error
	// creations counts how many times GetOrCreate actually created the record.
	creations int
}

// GetOrCreate returns the stored record, creating def when none exists.
func (m *memoryRepository) GetOrCreate(_ context.Context, def *domain.Alert) (*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		m.state = def.Clone()
		m.creations++
	}

	return m.state.Clone(), nil
}

// Save replaces the stored record.
func (m *memoryRepository) Save(_ context.Context, alert *domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	m.state = alert.Clone()

	return nil
}

// TestGetOrCreate_Default asserts the lazily created record is inactive with the default message.
func TestGetOrCreate_Default(t *testing.T) {
	t.Parallel()

	manager := NewManager(new(memoryRepository))

	alert, err := manager.GetOrCreate(context.Background())
	require.NoError(t, err)
	require.False(t, alert.Active)
	require.Nil(t, alert.Level)
	require.Equal(t, DefaultClearedMessage, alert.Message)
}

// TestGetOrCreate_Concurrent asserts N concurrent first accesses create exactly one record.
func TestGetOrCreate_Concurrent(t *testing.T) {
	t.Parallel()

	repo := new(memoryRepository)
	manager := NewManager(repo)

	const workers = 24

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = manager.GetOrCreate(context.Background())
		}()
	}

	wg.Wait()

	require.Equal(t, 1, repo.creations)
}

// TestTrigger sets active, level, message and a fresh timestamp.
func TestTrigger(t *testing.T) {
	t.Parallel()

	manager := NewManager(new(memoryRepository))

	prev, next, err := manager.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.NoError(t, err)
	require.False(t, prev.Active)
	require.True(t, next.Active)
	require.Equal(t, "AWAS", *next.Level)
	require.Equal(t, "Evacuate now", next.Message)
	require.False(t, next.UpdatedAt.Before(prev.UpdatedAt))

	// Defaults are applied when the admin sends an empty body.
	_, next, err = manager.Trigger(context.Background(), "", "")
	require.NoError(t, err)
	require.Equal(t, DefaultLevel, *next.Level)
	require.Equal(t, DefaultTriggerMessage, next.Message)
}

// TestClear always resets the level regardless of prior state.
func TestClear(t *testing.T) {
	t.Parallel()

	manager := NewManager(new(memoryRepository))

	_, _, err := manager.Trigger(context.Background(), "SIAGA", "Aktivitas meningkat.")
	require.NoError(t, err)

	_, next, err := manager.Clear(context.Background(), "")
	require.NoError(t, err)
	require.False(t, next.Active)
	require.Nil(t, next.Level)
	require.Equal(t, DefaultClearedMessage, next.Message)

	// Supplied message wins over the default.
	_, next, err = manager.Clear(context.Background(), "Warga boleh kembali.")
	require.NoError(t, err)
	require.Equal(t, "Warga boleh kembali.", next.Message)
}

// TestSequential asserts the record equals the effect of the last call applied to the default.
func TestSequential(t *testing.T) {
	t.Parallel()

	manager := NewManager(new(memoryRepository))
	ctx := context.Background()

	_, _, err := manager.Trigger(ctx, "AWAS", "Evacuate now")
	require.NoError(t, err)

	_, _, err = manager.Clear(ctx, "")
	require.NoError(t, err)

	_, _, err = manager.Trigger(ctx, "SIAGA", "Aktivitas meningkat.")
	require.NoError(t, err)

	alert, err := manager.GetOrCreate(ctx)
	require.NoError(t, err)
	require.True(t, alert.Active)
	require.Equal(t, "SIAGA", *alert.Level)
	require.Equal(t, "Aktivitas meningkat.", alert.Message)
}

// TestTrigger_StoreFailure asserts a failed persist aborts the operation.
func TestTrigger_StoreFailure(t *testing.T) {
	t.Parallel()

	manager := NewManager(&memoryRepository{saveErr: errTestStore})

	_, _, err := manager.Trigger(context.Background(), "AWAS", "Evacuate now")
	require.ErrorIs(t, err, errTestStore)
}
