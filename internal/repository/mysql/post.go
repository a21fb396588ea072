package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
	"github.com/Guyuepp/blog-comments/internal/repository/mysql/model"
)

type postRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.PostDBRepository = (*postRepository)(nil)

// NewPostDBRepository 创建数据库操作层
func NewPostDBRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (res domain.Post, err error) {
	var post model.Post
	err = withLock(ctx, conn(ctx, m.DB)).First(&post, "id = ?", id).Error
	if err != nil {
		return res, translateError(err)
	}
	return post.ToDomain(), nil
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	if err := conn(ctx, m.DB).Create(postModel).Error; err != nil {
		return translateError(err)
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (m *postRepository) Update(ctx context.Context, p *domain.Post) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	// a map keeps is_active=false from being skipped as a zero value
	result := conn(ctx, m.DB).Model(&model.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"body":       p.Body,
			"is_active":  p.IsActive,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		// unchanged rows count as zero on MySQL without clientFoundRows
		var n int64
		if err := conn(ctx, m.DB).Model(&model.Post{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return translateError(err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (m *postRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, m.DB).Delete(&model.Post{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) Query(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	if f.SortField == "" {
		f.SortField = domain.SortByCreatedAt
	}
	if f.Page < 1 || f.PageSize < 1 {
		repository.PageVerify(&f.Page, &f.PageSize, 0, 0)
	}
	scope := func(db *gorm.DB) *gorm.DB {
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		if f.CreatedOn != nil {
			from, to := dayBounds(*f.CreatedOn)
			db = db.Where("created_at >= ? AND created_at < ?", from, to)
		}
		return db
	}

	var total int64
	if err := conn(ctx, m.DB).Model(&model.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	if total == 0 {
		return []domain.Post{}, 0, nil
	}

	var posts []model.Post
	desc := f.Order != domain.OrderAsc
	err := conn(ctx, m.DB).Model(&model.Post{}).Scopes(scope).
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.SortField}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(repository.Offset(f.Page, f.PageSize)).
		Limit(f.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, total, nil
}

func (m *postRepository) CountComments(ctx context.Context, ids []int64) (map[int64]int64, error) {
	return countByParent(ctx, conn(ctx, m.DB), domain.CommentablePost, ids)
}

func (m *postRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = conn(ctx, m.DB).
		Model(&model.Post{}).
		Select("id").
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Find(&ids).Error
	return ids, translateError(err)
}

func (m *postRepository) IDsByUser(ctx context.Context, userID int64) (ids []int64, err error) {
	err = withLock(ctx, conn(ctx, m.DB)).
		Model(&model.Post{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, translateError(err)
}
