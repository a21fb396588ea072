package response

import (
	"github.com/samber/lo"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/render"
)

type Commentable struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type Comment struct {
	ID           int64       `json:"id"`
	Body         string      `json:"body"`
	BodyHTML     string      `json:"body_html,omitempty"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
	User         *User       `json:"user,omitempty"`
	Commentable  Commentable `json:"commentable"`
	RepliesCount int64       `json:"replies_count"`
}

// CommentTree 评论及其全部子回复
type CommentTree struct {
	Comment
	Replies []CommentTree `json:"replies"`
}

// NewCommentFromDomain: Domain -> Response. withHTML adds the rendered markdown body.
func NewCommentFromDomain(c *domain.Comment, withHTML bool) Comment {
	res := Comment{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt: c.UpdatedAt.Format(DateTimeFormat),
		User:      NewUserFromDomain(c.User),
		Commentable: Commentable{
			ID:   c.Parent.ID,
			Type: c.Parent.Kind.TypeName(),
		},
		RepliesCount: c.RepliesCount,
	}
	if withHTML {
		res.BodyHTML = render.Markdown(c.Body)
	}
	return res
}

func NewCommentsFromDomain(comments []domain.Comment, withHTML bool) []Comment {
	return lo.Map(comments, func(c domain.Comment, _ int) Comment {
		return NewCommentFromDomain(&c, withHTML)
	})
}

// NewCommentTree converts a resolved tree without recursion so deep threads are safe.
func NewCommentTree(root *domain.CommentNode, withHTML bool) CommentTree {
	type pending struct {
		node *domain.CommentNode
		out  *CommentTree
	}
	var res CommentTree
	stack := []pending{{node: root, out: &res}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.out.Comment = NewCommentFromDomain(&p.node.Comment, withHTML)
		p.out.Replies = make([]CommentTree, len(p.node.Replies))
		for i, child := range p.node.Replies {
			stack = append(stack, pending{node: child, out: &p.out.Replies[i]})
		}
	}
	return res
}

func NewCommentTrees(nodes []*domain.CommentNode, withHTML bool) []CommentTree {
	return lo.Map(nodes, func(n *domain.CommentNode, _ int) CommentTree {
		return NewCommentTree(n, withHTML)
	})
}
