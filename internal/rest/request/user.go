package request

import "github.com/Guyuepp/blog-comments/domain"

type Register struct {
	Name     string `json:"name" binding:"required,max=255"`
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUser is a partial profile update, absent fields are left untouched.
type UpdateUser struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Username *string `json:"username" binding:"omitempty,min=1,max=64"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
}

func (r *UpdateUser) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
	}
}
