package request

import (
	"time"

	"github.com/Guyuepp/blog-comments/domain"
)

// DateFormat is the layout of created_at filters.
const DateFormat = "2006-01-02"

// CreateComment is the body of POST /posts/:id/comments and POST /comments/:id/replies
type CreateComment struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// CreateCommentFor names the parent explicitly, for POST /comments
type CreateCommentFor struct {
	Body            string `json:"body" binding:"required,max=5000"`
	CommentableType string `json:"commentable_type" binding:"required,commentable"`
	CommentableID   int64  `json:"commentable_id" binding:"required,gt=0"`
}

func (r *CreateCommentFor) Parent() (domain.Commentable, error) {
	kind, err := domain.ParseCommentableKind(r.CommentableType)
	if err != nil {
		return domain.Commentable{}, err
	}
	return domain.Commentable{Kind: kind, ID: r.CommentableID}, nil
}

type UpdateComment struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// CommentQuery is the query string of comment listings.
type CommentQuery struct {
	UserID          *int64 `form:"user_id" binding:"omitempty,gt=0"`
	CommentableType string `form:"commentable_type" binding:"omitempty,commentable"`
	CommentableID   *int64 `form:"commentable_id" binding:"omitempty,gt=0"`
	CreatedAt       string `form:"created_at" binding:"omitempty,datetime=2006-01-02"`
	Sort            string `form:"sort"`
	Order           string `form:"order"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
}

// ToFilter: Request -> Domain
func (q *CommentQuery) ToFilter() (domain.CommentFilter, error) {
	f := domain.CommentFilter{
		UserID:    q.UserID,
		ParentID:  q.CommentableID,
		SortField: q.Sort,
		Order:     domain.SortOrder(q.Order),
		Page:      q.Page,
		PageSize:  q.PerPage,
	}
	if q.CommentableType != "" {
		kind, err := domain.ParseCommentableKind(q.CommentableType)
		if err != nil {
			return domain.CommentFilter{}, err
		}
		f.ParentKind = kind
	}
	day, err := parseDay(q.CreatedAt)
	if err != nil {
		return domain.CommentFilter{}, err
	}
	f.CreatedOn = day
	return f, nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return nil, domain.ErrBadParamInput
	}
	return &day, nil
}
