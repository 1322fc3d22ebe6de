package airquality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Reading is the latest air-quality measurement together with its classification.
type Reading struct {
	// PM25, PM10 and PM1 are particulate concentrations in ug/m3.
	// PM10 and PM1 are optional, not every device reports them.
	PM25 float64  `json:"pm25"`
	PM10 *float64 `json:"pm10"`
	PM1  *float64 `json:"pm1"`
	// Status is the classified band: green, yellow or red.
	Status string `json:"status"`
	// Label is the human-readable band name shown to clients.
	Label string `json:"label"`
	// DeviceID identifies the reporting sensor, when provided.
	DeviceID string `json:"device_id,omitempty"`
	// UpdatedAt is the UTC instant of the measurement.
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence operations for the latest air-quality reading.
type Repository interface {
	Load(ctx context.Context) (*Reading, error)
	Save(ctx context.Context, reading *Reading) error
}

// ErrNotFound is returned when no reading has been stored yet.
var ErrNotFound = errors.New("air-quality reading not found")

var (
	bucketName = []byte("airquality")
	recordKey  = []byte("latest")
)

// BoltRepository persists the latest reading as JSON in a bbolt bucket.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository creates a repository backed by the provided bbolt database.
func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// Load returns the latest stored reading.
func (r *BoltRepository) Load(_ context.Context) (*Reading, error) {
	var reading *Reading

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNotFound
		}

		raw := bucket.Get(recordKey)
		if raw == nil {
			return ErrNotFound
		}

		reading = new(Reading)

		if err := json.Unmarshal(raw, reading); err != nil {
			return fmt.Errorf("decode reading: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("load reading: %w", err)
	}

	return reading, nil
}

// Save replaces the latest stored reading.
func (r *BoltRepository) Save(_ context.Context, reading *Reading) error {
	raw, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		return bucket.Put(recordKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save reading: %w", err)
	}

	return nil
}
