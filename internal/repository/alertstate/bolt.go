package alertstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	domain "github.com/sinawise/sinawise-server/internal/domain/emergency"
)

// Repository defines persistence operations for the singleton alert record.
type Repository interface {
	// GetOrCreate returns the stored record, atomically creating def when no
	// record exists yet. Concurrent first accesses converge on one record.
	GetOrCreate(ctx context.Context, def *domain.Alert) (*domain.Alert, error)
	// Save replaces the stored record.
	Save(ctx context.Context, alert *domain.Alert) error
}

// ErrNotFound is returned when no alert record has been stored yet.
var ErrNotFound = errors.New("alert record not found")

var (
	bucketName = []byte("emergency")
	recordKey  = []byte("state")
)

// BoltRepository persists the alert record in a bbolt bucket. Every write runs
// inside a single update transaction, so first creation and replacement are
// atomic even under concurrent callers.
type BoltRepository struct {
	db *bolt.DB
}

// record is the stored JSON form of the domain Alert.
type record struct {
	Active    bool    `json:"active"`
	Level     *string `json:"level"`
	Message   string  `json:"message"`
	UpdatedAt string  `json:"updated_at"`
}

// NewBoltRepository creates a repository that reads/writes the alert record
// in the provided bbolt database.
func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// GetOrCreate returns the stored record, creating def inside the same
// transaction when the bucket holds nothing yet.
func (r *BoltRepository) GetOrCreate(_ context.Context, def *domain.Alert) (*domain.Alert, error) {
	var result *domain.Alert

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if raw := bucket.Get(recordKey); raw != nil {
			result, err = decode(raw)

			return err
		}

		raw, err := encode(def)
		if err != nil {
			return err
		}

		if err = bucket.Put(recordKey, raw); err != nil {
			return fmt.Errorf("put record: %w", err)
		}

		result = def.Clone()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get or create alert record: %w", err)
	}

	return result, nil
}

// Save replaces the stored record.
func (r *BoltRepository) Save(_ context.Context, alert *domain.Alert) error {
	raw, err := encode(alert)
	if err != nil {
		return err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		return bucket.Put(recordKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save alert record: %w", err)
	}

	return nil
}

// Load reads the stored record without creating one.
func (r *BoltRepository) Load(_ context.Context) (*domain.Alert, error) {
	var result *domain.Alert

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNotFound
		}

		raw := bucket.Get(recordKey)
		if raw == nil {
			return ErrNotFound
		}

		var err error
		result, err = decode(raw)

		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load alert record: %w", err)
	}

	return result, nil
}

// encode converts the domain Alert into its stored JSON form.
func encode(alert *domain.Alert) ([]byte, error) {
	data, err := json.Marshal(&record{
		Active:    alert.Active,
		Level:     alert.Level,
		Message:   alert.Message,
		UpdatedAt: alert.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("encode alert record: %w", err)
	}

	return data, nil
}

// decode converts the stored JSON form back into the domain Alert.
func decode(raw []byte) (*domain.Alert, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode alert record: %w", err)
	}

	var updatedAt time.Time
	if rec.UpdatedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode alert timestamp: %w", err)
		}

		updatedAt = parsed
	}

	return &domain.Alert{
		Active:    rec.Active,
		Level:     rec.Level,
		Message:   rec.Message,
		UpdatedAt: updatedAt,
	}, nil
}
