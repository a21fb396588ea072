package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

type Service struct {
	postRepo    domain.PostRepository
	tx          domain.Transactor
	cascade     domain.CommentCascade
	bloomRepo   domain.BloomRepository
	defaultSize int
	maxSize     int
}

var (
	_ domain.PostUsecase            = (*Service)(nil)
	_ domain.AuthoredContentRemover = (*Service)(nil)
)

// NewService will create a new post service object. bloomRepo may be nil.
func NewService(p domain.PostRepository, tx domain.Transactor, cascade domain.CommentCascade, bloom domain.BloomRepository, defaultSize, maxSize int) *Service {
	return &Service{
		postRepo:    p,
		tx:          tx,
		cascade:     cascade,
		bloomRepo:   bloom,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

func (s *Service) Fetch(ctx context.Context, f domain.PostFilter) (domain.Page[domain.Post], error) {
	if f.SortField == "" {
		f.SortField = domain.SortByCreatedAt
	}
	if f.SortField != domain.SortByCreatedAt && f.SortField != domain.SortByUpdatedAt {
		return domain.Page[domain.Post]{}, fmt.Errorf("unsupported sort field %q: %w", f.SortField, domain.ErrBadParamInput)
	}
	switch f.Order {
	case "":
		f.Order = domain.OrderDesc
	case domain.OrderAsc, domain.OrderDesc:
	default:
		return domain.Page[domain.Post]{}, fmt.Errorf("unsupported order %q: %w", f.Order, domain.ErrBadParamInput)
	}
	repository.PageVerify(&f.Page, &f.PageSize, s.defaultSize, s.maxSize)

	posts, total, err := s.postRepo.Query(ctx, f)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return domain.Page[domain.Post]{
		Items: posts,
		Meta: domain.PageMeta{
			Page:       f.Page,
			PageSize:   f.PageSize,
			TotalItems: total,
			TotalPages: repository.TotalPages(total, f.PageSize),
		},
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if !s.mayExist(ctx, id) {
		// confirm with a plain row lookup before taking the cached path
		exists, err := s.postRepo.Exists(ctx, id)
		if err != nil {
			return domain.Post{}, err
		}
		if !exists {
			return domain.Post{}, domain.ErrNotFound
		}
		s.repairBloom(ctx, id)
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *Service) Store(ctx context.Context, caller domain.Caller, p *domain.Post) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthorized
	}
	if err := domain.ValidateBody(p.Body); err != nil {
		return err
	}
	p.User = domain.User{ID: caller.UserID}
	if err := s.postRepo.Store(ctx, p); err != nil {
		return err
	}
	if s.bloomRepo != nil {
		if err := s.bloomRepo.Add(ctx, p.ID); err != nil {
			logrus.Warnf("failed to add post %d to bloom filter: %v", p.ID, err)
		}
	}
	return nil
}

func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, patch domain.PostPatch) (domain.Post, error) {
	existing, err := s.authorize(ctx, caller, id)
	if err != nil {
		return domain.Post{}, err
	}
	if patch.Body != nil {
		if err := domain.ValidateBody(*patch.Body); err != nil {
			return domain.Post{}, err
		}
		existing.Body = *patch.Body
	}
	if patch.IsActive != nil {
		existing.IsActive = *patch.IsActive
	}
	existing.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, &existing); err != nil {
		return domain.Post{}, err
	}
	return existing, nil
}

// Delete removes the post and every comment subtree on it in one transaction.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) (domain.Post, error) {
	existing, err := s.authorize(ctx, caller, id)
	if err != nil {
		return domain.Post{}, err
	}

	var removed int
	err = s.tx.Transaction(context.WithoutCancel(ctx), func(ctx context.Context) error {
		var err error
		removed, err = s.deletePost(ctx, id)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}
	logrus.Infof("post %d deleted by user %d with %d comments", id, caller.UserID, removed)
	return existing, nil
}

// DeleteByAuthor removes every post of userID with its comments and returns the number of posts removed.
// It joins the transaction carried by ctx, if any.
func (s *Service) DeleteByAuthor(ctx context.Context, userID int64) (int, error) {
	var posts int
	err := s.tx.Transaction(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ids, err := s.postRepo.IDsByUser(repository.WithLock(ctx, repository.LockForUpdate), userID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := s.deletePost(ctx, id); err != nil {
				return err
			}
			posts++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return posts, nil
}

// deletePost must run inside a transaction.
func (s *Service) deletePost(ctx context.Context, id int64) (int, error) {
	exists, err := s.postRepo.Exists(repository.WithLock(ctx, repository.LockForUpdate), id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	removed, err := s.cascade.DeleteUnder(ctx, domain.PostRef(id))
	if err != nil {
		return 0, err
	}
	return removed, s.postRepo.Delete(ctx, id)
}

// Exists is the post existence check used when attaching comments.
// It always reads the row, so lock hints in ctx take effect.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.postRepo.Exists(ctx, id)
}

// InitBloomFilter loads every existing post id into the bloom filter.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	if s.bloomRepo == nil {
		return nil
	}
	return s.bloomRepo.Rebuild(ctx, s.postRepo.FetchIDs)
}

func (s *Service) authorize(ctx context.Context, caller domain.Caller, id int64) (domain.Post, error) {
	if !caller.Authenticated() {
		return domain.Post{}, domain.ErrUnauthorized
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if existing.User.ID != caller.UserID {
		return domain.Post{}, domain.ErrForbidden
	}
	return existing, nil
}

// mayExist returns false when the bloom filter has no bits for id. That is a
// hint only: a failed Add leaves an existing post out of the filter.
func (s *Service) mayExist(ctx context.Context, id int64) bool {
	if s.bloomRepo == nil {
		return true
	}
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logrus.Warnf("bloom filter check for post %d failed: %v", id, err)
		}
		return true
	}
	return exists
}

func (s *Service) repairBloom(ctx context.Context, id int64) {
	if err := s.bloomRepo.Add(ctx, id); err != nil {
		logrus.Warnf("failed to re-add post %d to bloom filter: %v", id, err)
	}
}
