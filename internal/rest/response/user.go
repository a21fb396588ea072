package response

import (
	"time"

	"github.com/Guyuepp/blog-comments/domain"
)

const DateTimeFormat = time.RFC3339

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

func NewUserFromDomain(u *domain.User) *User {
	if u == nil || u.ID == 0 {
		return nil
	}
	res := &User{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
	}
	if !u.CreatedAt.IsZero() {
		res.CreatedAt = u.CreatedAt.Format(DateTimeFormat)
	}
	return res
}
