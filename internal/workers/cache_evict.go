package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
)

const (
	evictBatchSize     = 100
	evictFlushInterval = time.Second
	evictFlushTimeout  = 5 * time.Second
)

type cacheEvictWorker struct {
	cache    domain.PostCache
	ch       chan int64
	interval time.Duration
}

var _ domain.CacheEvictWorker = (*cacheEvictWorker)(nil)

// NewCacheEvictWorker batches post cache evictions triggered by comment writes.
func NewCacheEvictWorker(cache domain.PostCache) *cacheEvictWorker {
	return &cacheEvictWorker{
		cache:    cache,
		ch:       make(chan int64, 1024),
		interval: evictFlushInterval,
	}
}

func (w *cacheEvictWorker) Send(postID int64) {
	select {
	case w.ch <- postID:
	default:
		logrus.Warnf("CacheEvictWorker's channel is full, post %d not evicted", postID)
	}
}

func (w *cacheEvictWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make(map[int64]struct{}, evictBatchSize)
	for {
		select {
		case id := <-w.ch:
			batch[id] = struct{}{}
			if len(batch) >= evictBatchSize {
				w.flush(ctx, batch)
				batch = make(map[int64]struct{}, evictBatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make(map[int64]struct{}, evictBatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down CacheEvictWorker, flushing remaining evictions...")
		drain:
			for {
				select {
				case id := <-w.ch:
					batch[id] = struct{}{}
				default:
					break drain
				}
			}
			w.flush(context.WithoutCancel(ctx), batch)
			return
		}
	}
}

func (w *cacheEvictWorker) flush(ctx context.Context, batch map[int64]struct{}) {
	if len(batch) == 0 {
		return
	}
	ids := make([]int64, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	ctx, cancel := context.WithTimeout(ctx, evictFlushTimeout)
	defer cancel()
	if err := w.cache.DeletePosts(ctx, ids...); err != nil {
		logrus.Errorf("failed to evict %d posts from cache: %v", len(ids), err)
	}
}
