package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// postRepository 协调层，协调缓存和数据库
type postRepository struct {
	db           domain.PostDBRepository
	cache        domain.PostCache
	userRepo     domain.UserRepository
	rebuildGroup singleflight.Group
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository 创建协调层repository
func NewPostRepository(db domain.PostDBRepository, cache domain.PostCache, userRepo domain.UserRepository) *postRepository {
	return &postRepository{
		db:       db,
		cache:    cache,
		userRepo: userRepo,
	}
}

const postCacheTTL = 10 * time.Minute

// GetByID 先查缓存，逻辑过期时返回旧数据并异步重建；未命中时用singleflight合并回源
func (r *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	post, expired, err := r.cache.GetPost(ctx, id)
	if err == nil {
		if expired {
			go r.rebuildPostCache(context.Background(), id)
		}
		return post, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("post cache get error: %v", err)
	}

	result, err, _ := r.rebuildGroup.Do(postKey(id), func() (any, error) {
		return r.loadPost(ctx, id)
	})
	if err != nil {
		return domain.Post{}, err
	}
	return result.(domain.Post), nil
}

// rebuildPostCache 异步重建文章缓存
func (r *postRepository) rebuildPostCache(ctx context.Context, id int64) {
	_, err, _ := r.rebuildGroup.Do(postKey(id), func() (any, error) {
		p, err := r.loadPost(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// 帖子已删除，清掉旧缓存
			r.evict(ctx, id)
		}
		return p, err
	})
	if err != nil {
		logrus.Errorf("rebuildPostCache failed for id %d: %v", id, err)
	}
}

func (r *postRepository) loadPost(ctx context.Context, id int64) (domain.Post, error) {
	p, err := r.db.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	posts, err := r.fillDetails(ctx, []domain.Post{p})
	if err != nil {
		return domain.Post{}, err
	}
	p = posts[0]
	if err := r.cache.SetPost(ctx, &p, postCacheTTL); err != nil {
		logrus.Warnf("failed to set post cache: %v", err)
	}
	return p, nil
}

func postKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}

// Exists goes straight to the database so lock hints in ctx apply.
func (r *postRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.db.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *postRepository) Store(ctx context.Context, p *domain.Post) error {
	if err := r.db.Store(ctx, p); err != nil {
		return err
	}
	user, err := r.userRepo.GetByID(ctx, p.User.ID)
	if err != nil {
		logrus.Warnf("failed to load author %d of post %d: %v", p.User.ID, p.ID, err)
		return nil
	}
	user.Password = ""
	p.User = user
	return nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	if err := r.db.Update(ctx, p); err != nil {
		return err
	}
	r.evict(ctx, p.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *postRepository) Query(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	posts, total, err := r.db.Query(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	posts, err = r.fillDetails(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

func (r *postRepository) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.db.IDsByUser(ctx, userID)
}

func (r *postRepository) evict(ctx context.Context, id int64) {
	if err := r.cache.DeletePosts(ctx, id); err != nil {
		logrus.Warnf("failed to evict post %d from cache: %v", id, err)
	}
}

// fillDetails 批量填充作者信息和一级评论数
func (r *postRepository) fillDetails(ctx context.Context, posts []domain.Post) ([]domain.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	userIDs := make([]int64, 0, len(posts))
	postIDs := make([]int64, len(posts))
	existMap := make(map[int64]bool)
	for i, item := range posts {
		postIDs[i] = item.ID
		if !existMap[item.User.ID] {
			userIDs = append(userIDs, item.User.ID)
			existMap[item.User.ID] = true
		}
	}

	var (
		users  []domain.User
		counts map[int64]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = r.userRepo.GetByIDs(gctx, userIDs)
		return err
	})
	g.Go(func() (err error) {
		counts, err = r.db.CountComments(gctx, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		u.Password = ""
		userMap[u.ID] = u
	}

	for i := range posts {
		if u, ok := userMap[posts[i].User.ID]; ok {
			posts[i].User = u
		}
		posts[i].CommentsCount = counts[posts[i].ID]
	}
	return posts, nil
}
