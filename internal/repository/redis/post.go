package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository/cache"
	"github.com/redis/go-redis/v9"
)

const (
	KeyPost = "post:%d"

	// 物理过期时间是逻辑过期的倍数，保证过期后还能读到旧数据
	physicalTTLFactor = 3
)

type postCache struct {
	client *redis.Client
}

var _ domain.PostCache = (*postCache)(nil)

func NewPostCache(client *redis.Client) *postCache {
	return &postCache{
		client: client,
	}
}

// GetPost returns the cached post and whether its logical ttl has passed.
func (c *postCache) GetPost(ctx context.Context, id int64) (domain.Post, bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyPost, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Post{}, false, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Post{}, false, err
	}
	var entry cache.DataWithLogicalExpire[domain.Post]
	if err = json.Unmarshal(data, &entry); err != nil {
		return domain.Post{}, false, err
	}
	return entry.Data, entry.IsLogicalExpired(), nil
}

func (c *postCache) SetPost(ctx context.Context, p *domain.Post, ttl time.Duration) error {
	data, err := json.Marshal(cache.NewDataWithLogicalExpire(*p, ttl))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyPost, p.ID), data, ttl*physicalTTLFactor).Err()
}

func (c *postCache) DeletePosts(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(KeyPost, id)
	}
	return c.client.Del(ctx, keys...).Err()
}
