package response

import (
	"github.com/samber/lo"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/render"
)

type Post struct {
	ID            int64         `json:"id"`
	Body          string        `json:"body"`
	BodyHTML      string        `json:"body_html,omitempty"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	User          *User         `json:"user,omitempty"`
	CommentsCount int64         `json:"comments_count"`
	Comments      []CommentTree `json:"comments,omitempty"`
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post, withHTML bool) Post {
	res := Post{
		ID:            p.ID,
		Body:          p.Body,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:     p.UpdatedAt.Format(DateTimeFormat),
		User:          NewUserFromDomain(&p.User),
		CommentsCount: p.CommentsCount,
	}
	if withHTML {
		res.BodyHTML = render.Markdown(p.Body)
	}
	return res
}

func NewPostsFromDomain(posts []domain.Post, withHTML bool) []Post {
	return lo.Map(posts, func(p domain.Post, _ int) Post {
		return NewPostFromDomain(&p, withHTML)
	})
}
