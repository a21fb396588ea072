package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/blog-comments/domain"
)

func TestNewCommentFromDomain(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := domain.Comment{
		ID:           11,
		Body:         "*hi* <script>x</script>",
		Parent:       domain.CommentRef(10),
		CreatedAt:    ts,
		UpdatedAt:    ts,
		RepliesCount: 2,
	}

	res := NewCommentFromDomain(&c, false)
	assert.Nil(t, res.User)
	assert.Empty(t, res.BodyHTML)
	assert.Equal(t, Commentable{ID: 10, Type: "Comment"}, res.Commentable)
	assert.Equal(t, "2024-03-01T12:00:00Z", res.CreatedAt)

	res = NewCommentFromDomain(&c, true)
	assert.Contains(t, res.BodyHTML, "<em>hi</em>")
	assert.NotContains(t, res.BodyHTML, "<script>")
}

func TestNewCommentTreeHandlesDeepChains(t *testing.T) {
	const depth = 5000
	root := &domain.CommentNode{Comment: domain.Comment{ID: 1, Parent: domain.PostRef(1)}}
	cur := root
	for i := int64(2); i <= depth; i++ {
		next := &domain.CommentNode{Comment: domain.Comment{ID: i, Parent: domain.CommentRef(i - 1)}}
		cur.Replies = []*domain.CommentNode{next}
		cur = next
	}

	tree := NewCommentTree(root, false)
	n := 0
	for node := &tree; ; node = &node.Replies[0] {
		n++
		assert.Equal(t, int64(n), node.ID)
		if len(node.Replies) == 0 {
			break
		}
	}
	assert.Equal(t, depth, n)
}

func TestCommentTreeJSONShape(t *testing.T) {
	root := &domain.CommentNode{
		Comment: domain.Comment{ID: 10, Parent: domain.PostRef(1), User: &domain.User{ID: 3, Username: "b"}},
		Replies: []*domain.CommentNode{{Comment: domain.Comment{ID: 11, Parent: domain.CommentRef(10)}}},
	}
	raw, err := json.Marshal(NewCommentTree(root, false))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	for _, key := range []string{"id", "body", "created_at", "updated_at", "user", "commentable", "replies_count", "replies"} {
		assert.Contains(t, out, key)
	}
	child := out["replies"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{}, child["replies"])
	assert.NotContains(t, child, "user")
}

func TestNewPageNeverEmitsNull(t *testing.T) {
	p := NewPage[Comment](nil, domain.PageMeta{Page: 1, PageSize: 15})
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"meta":{"current_page":1,"per_page":15,"total":0,"last_page":0}}`, string(raw))
}
