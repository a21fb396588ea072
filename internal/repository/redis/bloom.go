package redis

import (
	"context"
	"encoding/binary"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
)

const (
	KeyPostBloom = "bloom:post:ids"

	defaultBloomHashes = 3
	rebuildBatch       = 1000
)

// bloomFilter is a Bloom filter kept in a Redis bitmap.
type bloomFilter struct {
	client *redis.Client
	key    string
	bits   uint64
	hashes int
}

var _ domain.BloomRepository = (*bloomFilter)(nil)

// NewBloomFilter stores the bitmap under key. hashes <= 0 uses 3 bit positions per id.
func NewBloomFilter(client *redis.Client, key string, bitSize uint64, hashes int) *bloomFilter {
	if hashes <= 0 {
		hashes = defaultBloomHashes
	}
	return &bloomFilter{
		client: client,
		key:    key,
		bits:   bitSize,
		hashes: hashes,
	}
}

func (b *bloomFilter) Add(ctx context.Context, id int64) error {
	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		b.setBits(ctx, pipe, b.key, id)
		return nil
	})
	return err
}

func (b *bloomFilter) Exists(ctx context.Context, id int64) (bool, error) {
	cmds, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, off := range b.offsets(id) {
			pipe.GetBit(ctx, b.key, int64(off))
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	for _, cmd := range cmds {
		if cmd.(*redis.IntCmd).Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Rebuild fills a staging bitmap from fetch and swaps it in with RENAME, so
// readers never see a half-built filter. Ids added while it runs are dropped.
func (b *bloomFilter) Rebuild(ctx context.Context, fetch domain.IDPager) error {
	staging := b.key + ":rebuild"
	if err := b.client.Del(ctx, staging).Err(); err != nil {
		return err
	}

	var cursor int64
	total := 0
	for {
		ids, err := fetch(ctx, cursor, rebuildBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		_, err = b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				b.setBits(ctx, pipe, staging, id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
		total += len(ids)
	}

	if total == 0 {
		// RENAME fails on a missing key
		return b.client.Del(ctx, b.key).Err()
	}
	if err := b.client.Rename(ctx, staging, b.key).Err(); err != nil {
		return err
	}
	logrus.Infof("bloom filter %s rebuilt with %d ids", b.key, total)
	return nil
}

func (b *bloomFilter) setBits(ctx context.Context, pipe redis.Pipeliner, key string, id int64) {
	for _, off := range b.offsets(id) {
		pipe.SetBit(ctx, key, int64(off), 1)
	}
}

// offsets derives every position from two base hashes (g_i = h1 + i*h2).
func (b *bloomFilter) offsets(id int64) []uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))

	h := fnv.New64a()
	h.Write(buf[:])
	h1 := h.Sum64()
	// odd, so positions stay distinct for power-of-two sizes
	h2 := uint64(crc32.ChecksumIEEE(buf[:])) | 1

	res := make([]uint64, b.hashes)
	for i := range res {
		res[i] = (h1 + uint64(i)*h2) % b.bits
	}
	return res
}
