package domain

import "context"

// IDPager pages through ids greater than cursor in ascending order.
type IDPager func(ctx context.Context, cursor, limit int64) ([]int64, error)

type BloomRepository interface {
	// Add 将 ID 加入过滤器
	Add(ctx context.Context, id int64) error

	// Exists 检查 ID 是否可能存在
	// 返回 true: 可能存在
	// 返回 false: 过滤器里没有，可能是写入失败，需要回源确认
	Exists(ctx context.Context, id int64) (bool, error)

	// Rebuild replaces the filter with one holding every id fetch yields.
	Rebuild(ctx context.Context, fetch IDPager) error
}
