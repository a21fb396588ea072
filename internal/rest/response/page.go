package response

import "github.com/Guyuepp/blog-comments/domain"

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewPage[T any](items []T, m domain.PageMeta) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: Meta{
			CurrentPage: m.Page,
			PerPage:     m.PageSize,
			Total:       m.TotalItems,
			LastPage:    m.TotalPages,
		},
	}
}
