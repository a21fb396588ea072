package comment

import (
	"context"

	"github.com/Guyuepp/blog-comments/domain"
)

// Resolver materializes reply trees by repeated FindChildren lookups.
// Nothing is cached: every call re-walks the store.
type Resolver struct {
	repo domain.CommentRepository
}

func NewResolver(repo domain.CommentRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Tree returns root with its full descendant tree.
func (r *Resolver) Tree(ctx context.Context, root domain.Comment) (*domain.CommentNode, error) {
	node := &domain.CommentNode{Comment: root}
	if err := r.expand(ctx, []*domain.CommentNode{node}); err != nil {
		return nil, err
	}
	return node, nil
}

// Children returns every comment attached to parent, each with its full descendant tree.
func (r *Resolver) Children(ctx context.Context, parent domain.Commentable) ([]*domain.CommentNode, error) {
	children, err := r.repo.FindChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	nodes := make([]*domain.CommentNode, len(children))
	for i := range children {
		nodes[i] = &domain.CommentNode{Comment: children[i]}
	}
	if err := r.expand(ctx, nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// expand walks breadth-first with an explicit queue, so depth never grows the call stack.
func (r *Resolver) expand(ctx context.Context, roots []*domain.CommentNode) error {
	queue := append(make([]*domain.CommentNode, 0, len(roots)), roots...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		node := queue[0]
		queue[0] = nil
		queue = queue[1:]

		children, err := r.repo.FindChildren(ctx, domain.CommentRef(node.Comment.ID))
		if err != nil {
			return err
		}
		node.Replies = make([]*domain.CommentNode, len(children))
		for i := range children {
			child := &domain.CommentNode{Comment: children[i]}
			node.Replies[i] = child
			queue = append(queue, child)
		}
	}
	return nil
}

// flatten lists the nodes of the given trees in breadth-first order:
// every node comes before all of its descendants.
func flatten(roots []*domain.CommentNode) []*domain.CommentNode {
	out := append(make([]*domain.CommentNode, 0, len(roots)), roots...)
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Replies...)
	}
	return out
}
