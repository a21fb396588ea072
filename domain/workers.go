package domain

import "context"

// CacheEvictWorker drops cached posts in batches off the request path.
type CacheEvictWorker interface {
	Start(ctx context.Context)

	// Send queues a post id for eviction; it never blocks.
	Send(postID int64)
}
