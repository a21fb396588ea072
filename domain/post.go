package domain

import (
	"context"
	"time"
)

// Post is representing the Post data struct
type Post struct {
	ID        int64     // Unique identifier for the post
	Body      string    // Post body content
	IsActive  bool      // Inactive posts are hidden from "active" listings
	User      User      // Author information
	UpdatedAt time.Time // Last update timestamp
	CreatedAt time.Time // Creation timestamp

	// CommentsCount counts top-level comments only
	CommentsCount int64
}

// PostFilter drives post listings. Nil fields are not applied.
type PostFilter struct {
	IsActive  *bool
	UserID    *int64
	CreatedOn *time.Time

	SortField string
	Order     SortOrder
	Page      int
	PageSize  int
}

// PostPatch carries the fields of a partial update. Nil fields are left untouched.
type PostPatch struct {
	Body     *string
	IsActive *bool
}

// ExistsFunc reports whether an entity with the given id exists.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// PostDBRepository defines the relational persistence of posts
type PostDBRepository interface {
	// GetByID returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)

	// Store creates a new post and backfills ID and timestamps.
	Store(ctx context.Context, p *Post) error

	// Update modifies body and is_active of an existing post.
	// Returns ErrNotFound if the post doesn't exist.
	Update(ctx context.Context, p *Post) error

	// Delete removes a post row. Comments are removed by the caller.
	Delete(ctx context.Context, id int64) error

	// Query returns one page of filtered posts and the total filtered count.
	Query(ctx context.Context, f PostFilter) ([]Post, int64, error)

	// CountComments returns top-level comment counts keyed by post id.
	CountComments(ctx context.Context, ids []int64) (map[int64]int64, error)

	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)

	// IDsByUser returns the ids of every post written by userID, ascending.
	IDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// PostCache caches fully populated posts. Misses return ErrCacheMiss.
type PostCache interface {
	// GetPost also reports whether the entry is logically expired.
	GetPost(ctx context.Context, id int64) (Post, bool, error)
	SetPost(ctx context.Context, p *Post, ttl time.Duration) error
	DeletePosts(ctx context.Context, ids ...int64) error
}

// PostRepository coordinates the post cache and the database
type PostRepository interface {
	GetByID(ctx context.Context, id int64) (Post, error)
	Store(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id int64) error
	Query(ctx context.Context, f PostFilter) ([]Post, int64, error)
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
	IDsByUser(ctx context.Context, userID int64) ([]int64, error)
	// Exists bypasses the cache so lock hints in ctx reach the database.
	Exists(ctx context.Context, id int64) (bool, error)
}

type PostUsecase interface {
	Fetch(ctx context.Context, f PostFilter) (Page[Post], error)
	GetByID(ctx context.Context, id int64) (Post, error)
	Store(ctx context.Context, caller Caller, p *Post) error
	Update(ctx context.Context, caller Caller, id int64, patch PostPatch) (Post, error)
	Delete(ctx context.Context, caller Caller, id int64) (Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
	InitBloomFilter(ctx context.Context) error
}
