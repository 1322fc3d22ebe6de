package emergency

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
	"github.com/sinawise/sinawise-server/internal/logger"
	repo "github.com/sinawise/sinawise-server/internal/repository/alertstate"
)

const (
	// DefaultLevel is the severity used when an admin triggers without one.
	DefaultLevel = "AWAS"
	// DefaultTriggerMessage is the message used when an admin triggers without one.
	DefaultTriggerMessage = "Peringatan darurat."
	// DefaultClearedMessage is the message used when an admin clears without one.
	DefaultClearedMessage = "Situasi sudah aman."
)

// Manager owns the alert record's lifecycle and transition rules.
// It is the only writer of the record; every read-modify-write runs under
// its mutex, so concurrent admin calls cannot lose updates.
type Manager struct {
	// repo handles persistent storage of the alert record.
	repo repo.Repository
	// mu serializes read-modify-write cycles on the singleton record.
	mu sync.Mutex
}

// NewManager creates a manager backed by the provided repository.
func NewManager(repository repo.Repository) *Manager {
	return &Manager{repo: repository}
}

// GetOrCreate returns the current record, creating the default inactive one
// on first access. Reads never touch the record's timestamp.
func (m *Manager) GetOrCreate(ctx context.Context) (*domain.Alert, error) {
	alert, err := m.repo.GetOrCreate(ctx, defaultAlert())
	if err != nil {
		return nil, fmt.Errorf("get alert record: %w", err)
	}

	return alert, nil
}

// Trigger activates the emergency with the provided level and message,
// persists the record and returns the previous and new states.
// Triggering over an already-active emergency is allowed: level and message
// may have changed and must be re-announced.
func (m *Manager) Trigger(ctx context.Context, level, message string) (prev, next *domain.Alert, err error) {
	if level == "" {
		level = DefaultLevel
	}

	if message == "" {
		message = DefaultTriggerMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, err = m.repo.GetOrCreate(ctx, defaultAlert())
	if err != nil {
		return nil, nil, fmt.Errorf("get alert record: %w", err)
	}

	next = &domain.Alert{
		Active:    true,
		Level:     &level,
		Message:   message,
		UpdatedAt: time.Now().UTC(),
	}

	if err = m.repo.Save(ctx, next); err != nil {
		logger.Errorf(ctx, "Failed to persist alert record: %v", err)

		return nil, nil, fmt.Errorf("persist alert record: %w", err)
	}

	logger.InfoKV(ctx, "Emergency triggered", "level", level, "message", message)

	return prev, next.Clone(), nil
}

// Clear deactivates the emergency, always resetting the level, persists the
// record and returns the previous and new states.
func (m *Manager) Clear(ctx context.Context, message string) (prev, next *domain.Alert, err error) {
	if message == "" {
		message = DefaultClearedMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, err = m.repo.GetOrCreate(ctx, defaultAlert())
	if err != nil {
		return nil, nil, fmt.Errorf("get alert record: %w", err)
	}

	next = &domain.Alert{
		Active:    false,
		Level:     nil,
		Message:   message,
		UpdatedAt: time.Now().UTC(),
	}

	if err = m.repo.Save(ctx, next); err != nil {
		logger.Errorf(ctx, "Failed to persist alert record: %v", err)

		return nil, nil, fmt.Errorf("persist alert record: %w", err)
	}

	logger.InfoKV(ctx, "Emergency cleared", "message", message)

	return prev, next.Clone(), nil
}

// defaultAlert is the record created lazily on first access.
func defaultAlert() *domain.Alert {
	return &domain.Alert{
		Active:    false,
		Message:   DefaultClearedMessage,
		UpdatedAt: time.Now().UTC(),
	}
}
