package comment

import (
	"context"
	"fmt"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

var sortableFields = map[string]bool{
	domain.SortByCreatedAt: true,
	domain.SortByUpdatedAt: true,
}

// QueryService lists comments flat, independent of the reply trees.
type QueryService struct {
	repo        domain.CommentRepository
	defaultSize int
	maxSize     int
}

func NewQueryService(repo domain.CommentRepository, defaultSize, maxSize int) *QueryService {
	return &QueryService{
		repo:        repo,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// List applies the filters conjunctively. Page size is clamped, never rejected.
func (q *QueryService) List(ctx context.Context, f domain.CommentFilter) (domain.Page[domain.Comment], error) {
	if err := q.normalize(&f); err != nil {
		return domain.Page[domain.Comment]{}, err
	}

	items, total, err := q.repo.Query(ctx, f)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}

	if len(items) > 0 {
		ids := make([]int64, len(items))
		for i := range items {
			ids[i] = items[i].ID
		}
		counts, err := q.repo.CountReplies(ctx, ids)
		if err != nil {
			return domain.Page[domain.Comment]{}, err
		}
		for i := range items {
			items[i].RepliesCount = counts[items[i].ID]
		}
	}

	return domain.Page[domain.Comment]{
		Items: items,
		Meta: domain.PageMeta{
			Page:       f.Page,
			PageSize:   f.PageSize,
			TotalItems: total,
			TotalPages: repository.TotalPages(total, f.PageSize),
		},
	}, nil
}

func (q *QueryService) normalize(f *domain.CommentFilter) error {
	if f.SortField == "" {
		f.SortField = domain.SortByCreatedAt
	}
	if !sortableFields[f.SortField] {
		return fmt.Errorf("unsupported sort field %q: %w", f.SortField, domain.ErrBadParamInput)
	}
	switch f.Order {
	case "":
		f.Order = domain.OrderAsc
	case domain.OrderAsc, domain.OrderDesc:
	default:
		return fmt.Errorf("unsupported order %q: %w", f.Order, domain.ErrBadParamInput)
	}
	if f.ParentKind != domain.CommentableNone && !f.ParentKind.Valid() {
		return fmt.Errorf("invalid commentable type %q: %w", f.ParentKind, domain.ErrBadParamInput)
	}
	repository.PageVerify(&f.Page, &f.PageSize, q.defaultSize, q.maxSize)
	return nil
}
