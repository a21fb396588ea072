package request

import (
	"github.com/Guyuepp/blog-comments/domain"
)

type CreatePost struct {
	Body     string `json:"body" binding:"required,max=5000"`
	IsActive *bool  `json:"is_active"`
}

// ToDomain: Request -> Domain. Posts are active unless stated otherwise.
func (r *CreatePost) ToDomain() domain.Post {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Post{
		Body:     r.Body,
		IsActive: active,
	}
}

// UpdatePost is a partial update, absent fields are left untouched.
type UpdatePost struct {
	Body     *string `json:"body" binding:"omitempty,max=5000"`
	IsActive *bool   `json:"is_active"`
}

func (r *UpdatePost) ToPatch() domain.PostPatch {
	return domain.PostPatch{
		Body:     r.Body,
		IsActive: r.IsActive,
	}
}

type PostQuery struct {
	IsActive  *bool  `form:"is_active"`
	UserID    *int64 `form:"user_id" binding:"omitempty,gt=0"`
	CreatedAt string `form:"created_at" binding:"omitempty,datetime=2006-01-02"`
	Sort      string `form:"sort"`
	Order     string `form:"order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

func (q *PostQuery) ToFilter() (domain.PostFilter, error) {
	day, err := parseDay(q.CreatedAt)
	if err != nil {
		return domain.PostFilter{}, err
	}
	return domain.PostFilter{
		IsActive:  q.IsActive,
		UserID:    q.UserID,
		CreatedOn: day,
		SortField: q.Sort,
		Order:     domain.SortOrder(q.Order),
		Page:      q.Page,
		PageSize:  q.PerPage,
	}, nil
}
