package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Video is an education video shown to the public.
type Video struct {
	// ID is the unique identifier of the video.
	ID string `json:"id"`
	// Title is the display title.
	Title string `json:"judul"`
	// URL points at the hosted video.
	URL string `json:"url"`
	// Notes holds free-form remarks.
	Notes string `json:"keterangan,omitempty"`
	// CreatedAt and UpdatedAt are UTC instants of record creation and last change.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence operations for education videos.
type Repository interface {
	List(ctx context.Context) ([]*Video, error)
	Get(ctx context.Context, id string) (*Video, error)
	Create(ctx context.Context, video *Video) error
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id string) error
}

// ErrNotFound is returned when the requested video does not exist.
var ErrNotFound = errors.New("video not found")

var bucketName = []byte("videos")

// BoltRepository persists videos as JSON values in a bbolt bucket.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository creates a repository backed by the provided bbolt database.
func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// List returns all videos, newest first.
func (r *BoltRepository) List(_ context.Context) ([]*Video, error) {
	var videos []*Video

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, raw []byte) error {
			var v Video
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("decode video: %w", err)
			}

			videos = append(videos, &v)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})

	return videos, nil
}

// Get returns the video with the given id.
func (r *BoltRepository) Get(_ context.Context, id string) (*Video, error) {
	var video *Video

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNotFound
		}

		raw := bucket.Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}

		video = new(Video)

		if err := json.Unmarshal(raw, video); err != nil {
			return fmt.Errorf("decode video: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get video: %w", err)
	}

	return video, nil
}

// Create stores a new video, assigning an identifier and timestamps.
func (r *BoltRepository) Create(_ context.Context, video *Video) error {
	now := time.Now().UTC()
	video.ID = uuid.NewString()
	video.CreatedAt = now
	video.UpdatedAt = now

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		raw, err := json.Marshal(video)
		if err != nil {
			return fmt.Errorf("encode video: %w", err)
		}

		return bucket.Put([]byte(video.ID), raw)
	})
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}

	return nil
}

// Update replaces an existing video, refreshing its update timestamp.
func (r *BoltRepository) Update(_ context.Context, video *Video) error {
	video.UpdatedAt = time.Now().UTC()

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil || bucket.Get([]byte(video.ID)) == nil {
			return ErrNotFound
		}

		raw, err := json.Marshal(video)
		if err != nil {
			return fmt.Errorf("encode video: %w", err)
		}

		return bucket.Put([]byte(video.ID), raw)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("update video: %w", err)
	}

	return nil
}

// Delete removes the video with the given id.
func (r *BoltRepository) Delete(_ context.Context, id string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}

		return bucket.Delete([]byte(id))
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete video: %w", err)
	}

	return nil
}
