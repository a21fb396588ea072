package rest

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/domain/mocks"
)

func commentRoutes(r *gin.Engine, svc domain.CommentUsecase) {
	h := NewCommentHandler(svc)
	r.GET("/comments", h.Fetch)
	r.POST("/comments", h.Store)
	r.GET("/comments/:id", h.GetByID)
	r.PUT("/comments/:id", h.Update)
	r.DELETE("/comments/:id", h.Delete)
	r.GET("/comments/:id/replies", h.FetchReplies)
	r.POST("/comments/:id/replies", h.StoreReply)
	r.GET("/posts/:id/comments", h.FetchByPost)
	r.POST("/posts/:id/comments", h.StoreForPost)
	r.GET("/users/:id/comments", h.FetchByUser)
	r.GET("/my/comments", h.FetchMine)
}

func sampleComment(id int64, parent domain.Commentable) domain.Comment {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Comment{
		ID:        id,
		Body:      "**hello**",
		UserID:    3,
		User:      &domain.User{ID: 3, Name: "Alice", Username: "alice"},
		Parent:    parent,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestStoreForPost(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(3)
	commentRoutes(r, svc)

	svc.On("Create", mock.Anything, domain.Caller{UserID: 3}, "**hello**", domain.PostRef(1)).
		Return(sampleComment(10, domain.PostRef(1)), nil).Once()

	rec, out := doJSON(t, r, http.MethodPost, "/posts/1/comments?render=html", map[string]string{"body": "**hello**"})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := dataOf(t, out)
	assert.EqualValues(t, 10, data["id"])
	assert.Equal(t, "2024-03-01T12:00:00Z", data["created_at"])
	assert.Contains(t, data["body_html"], "<strong>hello</strong>")
	assert.Equal(t, map[string]any{"id": float64(1), "type": "Post"}, data["commentable"])
	assert.Equal(t, "alice", data["user"].(map[string]any)["username"])
	svc.AssertExpectations(t)
}

func TestStoreReplyErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"parent missing", domain.ErrNotFound, http.StatusNotFound},
		{"anonymous", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"lock timeout", domain.ErrConflict, http.StatusConflict},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mocks.CommentUsecase)
			r := newRouter(3)
			commentRoutes(r, svc)
			svc.On("Create", mock.Anything, mock.Anything, "hi", domain.CommentRef(10)).
				Return(domain.Comment{}, tc.err).Once()

			rec, out := doJSON(t, r, http.MethodPost, "/comments/10/replies", map[string]string{"body": "hi"})
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusInternalServerError {
				assert.Equal(t, domain.ErrInternalServerError.Error(), out["message"])
			}
		})
	}
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(3)
	commentRoutes(r, svc)

	rec, _ := doJSON(t, r, http.MethodPost, "/posts/1/comments", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/posts/1/comments", "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/comments", map[string]any{
		"body": "hi", "commentable_type": "video", "commentable_id": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/posts/abc/comments", map[string]string{"body": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreWithExplicitParent(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(3)
	commentRoutes(r, svc)

	svc.On("Create", mock.Anything, domain.Caller{UserID: 3}, "hi", domain.CommentRef(10)).
		Return(sampleComment(11, domain.CommentRef(10)), nil).Once()

	rec, out := doJSON(t, r, http.MethodPost, "/comments", map[string]any{
		"body": "hi", "commentable_type": "Comment", "commentable_id": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Comment", dataOf(t, out)["commentable"].(map[string]any)["type"])
}

func TestGetByIDReturnsNestedReplies(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(0)
	commentRoutes(r, svc)

	leaf := &domain.CommentNode{Comment: sampleComment(12, domain.CommentRef(11))}
	mid := &domain.CommentNode{Comment: sampleComment(11, domain.CommentRef(10)), Replies: []*domain.CommentNode{leaf}}
	root := &domain.CommentNode{Comment: sampleComment(10, domain.PostRef(1)), Replies: []*domain.CommentNode{mid}}
	root.Comment.RepliesCount = 1
	svc.On("GetWithReplies", mock.Anything, int64(10)).Return(root, nil).Once()
	svc.On("GetWithReplies", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	rec, out := doJSON(t, r, http.MethodGet, "/comments/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, out)
	assert.EqualValues(t, 1, data["replies_count"])
	replies := data["replies"].([]any)
	require.Len(t, replies, 1)
	grand := replies[0].(map[string]any)["replies"].([]any)
	require.Len(t, grand, 1)
	assert.EqualValues(t, 12, grand[0].(map[string]any)["id"])
	assert.Equal(t, []any{}, grand[0].(map[string]any)["replies"])
	_, hasHTML := data["body_html"]
	assert.False(t, hasHTML)

	rec, _ = doJSON(t, r, http.MethodGet, "/comments/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchByPost(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(0)
	commentRoutes(r, svc)

	svc.On("ListPostComments", mock.Anything, int64(1)).Return([]*domain.CommentNode{}, nil).Once()
	svc.On("ListPostComments", mock.Anything, int64(2)).Return(nil, domain.ErrNotFound).Once()

	rec, out := doJSON(t, r, http.MethodGet, "/posts/1/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, out["data"])

	rec, _ = doJSON(t, r, http.MethodGet, "/posts/2/comments", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchWithFilters(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(0)
	commentRoutes(r, svc)

	svc.On("List", mock.Anything, mock.MatchedBy(func(f domain.CommentFilter) bool {
		return f.ParentKind == domain.CommentablePost &&
			f.ParentID != nil && *f.ParentID == 1 &&
			f.CreatedOn != nil && f.CreatedOn.Day() == 1 &&
			f.SortField == "updated_at" && f.Order == domain.OrderAsc &&
			f.Page == 2 && f.PageSize == 5
	})).Return(domain.Page[domain.Comment]{
		Items: []domain.Comment{sampleComment(10, domain.PostRef(1))},
		Meta:  domain.PageMeta{Page: 2, PageSize: 5, TotalItems: 6, TotalPages: 2},
	}, nil).Once()

	rec, out := doJSON(t, r, http.MethodGet,
		"/comments?commentable_type=post&commentable_id=1&created_at=2024-03-01&sort=updated_at&order=asc&page=2&per_page=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["data"], 1)
	assert.Equal(t, map[string]any{
		"current_page": float64(2), "per_page": float64(5), "total": float64(6), "last_page": float64(2),
	}, out["meta"])
	svc.AssertExpectations(t)

	rec, _ = doJSON(t, r, http.MethodGet, "/comments?created_at=yesterday", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	svc.On("List", mock.Anything, mock.Anything).Return(domain.Page[domain.Comment]{}, domain.ErrBadParamInput).Once()
	rec, _ = doJSON(t, r, http.MethodGet, "/comments?sort=likes", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFetchByAuthorDefaultsToNewestFirst(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	mine := newRouter(4)
	commentRoutes(mine, svc)

	svc.On("List", mock.Anything, mock.MatchedBy(func(f domain.CommentFilter) bool {
		return f.UserID != nil && *f.UserID == 4 && f.Order == domain.OrderDesc
	})).Return(domain.Page[domain.Comment]{}, nil).Twice()

	rec, out := doJSON(t, mine, http.MethodGet, "/users/4/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, out["data"])

	rec, _ = doJSON(t, mine, http.MethodGet, "/my/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	anon := newRouter(0)
	commentRoutes(anon, svc)
	rec, _ = doJSON(t, anon, http.MethodGet, "/my/comments", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := new(mocks.CommentUsecase)
	r := newRouter(3)
	commentRoutes(r, svc)

	edited := sampleComment(10, domain.PostRef(1))
	edited.Body = "edited"
	svc.On("Update", mock.Anything, domain.Caller{UserID: 3}, int64(10), "edited").Return(edited, nil).Once()
	svc.On("Update", mock.Anything, domain.Caller{UserID: 3}, int64(11), "edited").Return(domain.Comment{}, domain.ErrForbidden).Once()
	svc.On("Delete", mock.Anything, domain.Caller{UserID: 3}, int64(10)).Return(edited, nil).Once()
	svc.On("Delete", mock.Anything, domain.Caller{UserID: 3}, int64(10)).Return(domain.Comment{}, domain.ErrNotFound).Once()

	rec, out := doJSON(t, r, http.MethodPut, "/comments/10", map[string]string{"body": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", dataOf(t, out)["body"])

	rec, _ = doJSON(t, r, http.MethodPut, "/comments/11", map[string]string{"body": "edited"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, out = doJSON(t, r, http.MethodDelete, "/comments/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, dataOf(t, out)["id"])

	rec, _ = doJSON(t, r, http.MethodDelete, "/comments/10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
