package shelter

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

// Post is an evacuation post shown to the public during an emergency.
type Post struct {
	// ID is the unique identifier of the post.
	ID string `json:"id"`
	// Name is the display name of the post.
	Name string `json:"nama"`
	// Address is the street address.
	Address string `json:"alamat"`
	// Lat and Lng are the WGS84 coordinates.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	// Capacity is the number of people the post can host, when known.
	Capacity *int `json:"kapasitas,omitempty"`
	// Phone is the contact number, when known.
	Phone string `json:"telepon,omitempty"`
	// Notes holds free-form remarks.
	Notes string `json:"keterangan,omitempty"`
	// CreatedAt and UpdatedAt are UTC instants of record creation and last change.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence operations for evacuation posts.
type Repository interface {
	List(ctx context.Context) ([]*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}

// ErrNotFound is returned when the requested post does not exist.
var ErrNotFound = errors.New("evacuation post not found")

var bucketName = []byte("shelters")

// BoltRepository persists evacuation posts as JSON values in a bbolt bucket.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository creates a repository backed by the provided bbolt database.
func NewBoltRepository(db *bolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// List returns all posts, newest first.
func (r *BoltRepository) List(_ context.Context) ([]*Post, error) {
	var posts []*Post

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, raw []byte) error {
			var post Post
			if err := json.Unmarshal(raw, &post); err != nil {
				return fmt.Errorf("decode post: %w", err)
			}

			posts = append(posts, &post)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

// Get returns the post with the given id.
func (r *BoltRepository) Get(_ context.Context, id string) (*Post, error) {
	var post *Post

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrNotFound
		}

		raw := bucket.Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}

		post = new(Post)

		if err := json.Unmarshal(raw, post); err != nil {
			return fmt.Errorf("decode post: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get post: %w", err)
	}

	return post, nil
}

// Create stores a new post, assigning an identifier and timestamps.
func (r *BoltRepository) Create(_ context.Context, post *Post) error {
	now := time.Now().UTC()
	post.ID = uuid.NewString()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := r.put(post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// Update replaces an existing post, refreshing its update timestamp.
func (r *BoltRepository) Update(_ context.Context, post *Post) error {
	post.UpdatedAt = time.Now().UTC()

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil || bucket.Get([]byte(post.ID)) == nil {
			return ErrNotFound
		}

		raw, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}

		return bucket.Put([]byte(post.ID), raw)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("update post: %w", err)
	}

	return nil
}

// Delete removes the post with the given id.
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

		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}

// put writes the post inside one update transaction.
func (r *BoltRepository) put(post *Post) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		raw, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}

		return bucket.Put([]byte(post.ID), raw)
	})
}
