package request

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/blog-comments/domain"
)

func TestCommentableValidation(t *testing.T) {
	for _, kind := range []string{"post", "Post", "comment", "COMMENT"} {
		req := CreateCommentFor{Body: "hi", CommentableType: kind, CommentableID: 1}
		assert.NoError(t, binding.Validator.ValidateStruct(&req), kind)
	}
	req := CreateCommentFor{Body: "hi", CommentableType: "video", CommentableID: 1}
	assert.Error(t, binding.Validator.ValidateStruct(&req))

	q := CommentQuery{}
	assert.NoError(t, binding.Validator.ValidateStruct(&q))
}

func TestCommentQueryToFilter(t *testing.T) {
	uid, pid := int64(3), int64(1)
	q := CommentQuery{
		UserID:          &uid,
		CommentableType: "Post",
		CommentableID:   &pid,
		CreatedAt:       "2024-03-01",
		Sort:            "created_at",
		Order:           "asc",
		Page:            2,
		PerPage:         5,
	}
	f, err := q.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, domain.CommentablePost, f.ParentKind)
	assert.Equal(t, &pid, f.ParentID)
	assert.Equal(t, domain.OrderAsc, f.Order)
	require.NotNil(t, f.CreatedOn)
	assert.Equal(t, 1, f.CreatedOn.Day())

	q = CommentQuery{CreatedAt: "01/03/2024"}
	_, err = q.ToFilter()
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestCreateCommentForParent(t *testing.T) {
	req := CreateCommentFor{Body: "hi", CommentableType: "Comment", CommentableID: 10}
	parent, err := req.Parent()
	require.NoError(t, err)
	assert.Equal(t, domain.CommentRef(10), parent)
}

func TestUpdatePostToPatch(t *testing.T) {
	active := false
	p := (&UpdatePost{IsActive: &active}).ToPatch()
	assert.Nil(t, p.Body)
	assert.Equal(t, &active, p.IsActive)

	created := (&CreatePost{Body: "x"}).ToDomain()
	assert.True(t, created.IsActive)
}
