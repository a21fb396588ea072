package model

import (
	"time"

	"github.com/Guyuepp/blog-comments/domain"
)

// Comment rows hold a polymorphic parent: (commentable_type, commentable_id).
type Comment struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	UserID          int64     `gorm:"column:user_id;not null;index"`
	Body            string    `gorm:"type:text;not null"`
	CommentableType string    `gorm:"column:commentable_type;type:varchar(16);not null;index:idx_comment_commentable,priority:1"`
	CommentableID   int64     `gorm:"column:commentable_id;not null;index:idx_comment_commentable,priority:2"`
	CreatedAt       time.Time `gorm:"index:idx_comment_commentable,priority:3;index"`
	UpdatedAt       time.Time
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:              c.ID,
		UserID:          c.UserID,
		Body:            c.Body,
		CommentableType: string(c.Parent.Kind),
		CommentableID:   c.Parent.ID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:     m.ID,
		UserID: m.UserID,
		Body:   m.Body,
		Parent: domain.Commentable{
			Kind: domain.CommentableKind(m.CommentableType),
			ID:   m.CommentableID,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
