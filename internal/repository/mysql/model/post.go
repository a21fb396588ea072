package model

import (
	"time"

	"github.com/Guyuepp/blog-comments/domain"
)

type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Body      string    `gorm:"type:text;not null"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	IsActive  bool      `gorm:"column:is_active;not null;index"`
	UpdatedAt time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (Post) TableName() string {
	return "post"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:        m.ID,
		Body:      m.Body,
		IsActive:  m.IsActive,
		UpdatedAt: m.UpdatedAt,
		CreatedAt: m.CreatedAt,
		User: domain.User{
			ID: m.UserID,
		},
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:        p.ID,
		Body:      p.Body,
		UserID:    p.User.ID,
		IsActive:  p.IsActive,
		UpdatedAt: p.UpdatedAt,
		CreatedAt: p.CreatedAt,
	}
}
