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

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := domain.ValidateBody(comment.Body); err != nil {
		return err
	}
	if err := comment.Parent.Validate(); err != nil {
		return err
	}
	row := model.NewCommentFromDomain(comment)
	if err := conn(ctx, c.DB).Create(row).Error; err != nil {
		return translateError(err)
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	comment.UpdatedAt = row.UpdatedAt
	return nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	var row model.Comment
	err := withLock(ctx, conn(ctx, c.DB)).First(&row, "id = ?", id).Error
	if err != nil {
		return domain.Comment{}, translateError(err)
	}
	return row.ToDomain(), nil
}

func (c *commentRepository) Update(ctx context.Context, id int64, body string) (domain.Comment, error) {
	if err := domain.ValidateBody(body); err != nil {
		return domain.Comment{}, err
	}
	result := conn(ctx, c.DB).Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{"body": body, "updated_at": time.Now()})
	if result.Error != nil {
		return domain.Comment{}, translateError(result.Error)
	}
	// zero rows affected also means "unchanged" on MySQL without clientFoundRows;
	// the read tells a missing row apart
	return c.GetByID(ctx, id)
}

func (c *commentRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, c.DB).Delete(&model.Comment{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) FindChildren(ctx context.Context, parent domain.Commentable) ([]domain.Comment, error) {
	var rows []model.Comment
	err := withLock(ctx, conn(ctx, c.DB)).
		Where("commentable_type = ? AND commentable_id = ?", string(parent.Kind), parent.ID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainComments(rows), nil
}

func (c *commentRepository) Query(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, int64, error) {
	if f.SortField == "" {
		f.SortField = domain.SortByCreatedAt
	}
	if f.Page < 1 || f.PageSize < 1 {
		repository.PageVerify(&f.Page, &f.PageSize, 0, 0)
	}
	scope := func(db *gorm.DB) *gorm.DB {
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		if f.ParentKind != domain.CommentableNone {
			db = db.Where("commentable_type = ?", string(f.ParentKind))
		}
		if f.ParentID != nil {
			db = db.Where("commentable_id = ?", *f.ParentID)
		}
		if f.CreatedOn != nil {
			from, to := dayBounds(*f.CreatedOn)
			db = db.Where("created_at >= ? AND created_at < ?", from, to)
		}
		return db
	}

	var total int64
	if err := conn(ctx, c.DB).Model(&model.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	if total == 0 {
		return []domain.Comment{}, 0, nil
	}

	var rows []model.Comment
	desc := f.Order == domain.OrderDesc
	err := conn(ctx, c.DB).Model(&model.Comment{}).Scopes(scope).
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.SortField}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(repository.Offset(f.Page, f.PageSize)).
		Limit(f.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return toDomainComments(rows), total, nil
}

type idCount struct {
	ID    int64
	Total int64
}

func (c *commentRepository) CountReplies(ctx context.Context, ids []int64) (map[int64]int64, error) {
	return countByParent(ctx, conn(ctx, c.DB), domain.CommentableComment, ids)
}

func (c *commentRepository) IDsByUser(ctx context.Context, userID int64) (ids []int64, err error) {
	err = withLock(ctx, conn(ctx, c.DB)).
		Model(&model.Comment{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, translateError(err)
}

// countByParent counts direct children per parent id of the given kind.
func countByParent(ctx context.Context, db *gorm.DB, kind domain.CommentableKind, ids []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var rows []idCount
	err := db.Model(&model.Comment{}).
		Select("commentable_id AS id, COUNT(*) AS total").
		Where("commentable_type = ? AND commentable_id IN ?", string(kind), ids).
		Group("commentable_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, r := range rows {
		res[r.ID] = r.Total
	}
	return res, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}

func toDomainComments(rows []model.Comment) []domain.Comment {
	res := make([]domain.Comment, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res
}
