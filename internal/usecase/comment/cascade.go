package comment

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

const defaultCascadeTimeout = 30 * time.Second

var (
	cascadeDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_comment_cascade_deleted_total",
		Help: "Comments removed by cascade deletions.",
	})
	cascadeSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_comment_cascade_already_gone_total",
		Help: "Descendants that were already deleted when the cascade reached them.",
	})
)

// Cascade deletes whole comment subtrees inside one transaction.
type Cascade struct {
	repo     domain.CommentRepository
	tx       domain.Transactor
	resolver *Resolver
	timeout  time.Duration
}

var (
	_ domain.CommentCascade         = (*Cascade)(nil)
	_ domain.AuthoredContentRemover = (*Cascade)(nil)
)

func NewCascade(repo domain.CommentRepository, tx domain.Transactor, timeout time.Duration) *Cascade {
	if timeout <= 0 {
		timeout = defaultCascadeTimeout
	}
	return &Cascade{
		repo:     repo,
		tx:       tx,
		resolver: NewResolver(repo),
		timeout:  timeout,
	}
}

// DeleteTree removes rootID and every descendant, children before parents.
// The run is detached from ctx cancellation: it commits or rolls back as a whole.
func (c *Cascade) DeleteTree(ctx context.Context, rootID int64) (int, error) {
	ctx, cancel := c.detach(ctx)
	defer cancel()

	var deleted int
	err := c.tx.Transaction(ctx, func(ctx context.Context) error {
		lockCtx := repository.WithLock(ctx, repository.LockForUpdate)
		root, err := c.repo.GetByID(lockCtx, rootID)
		if err != nil {
			return err
		}
		tree, err := c.resolver.Tree(lockCtx, root)
		if err != nil {
			return err
		}
		deleted, err = c.deleteBottomUp(ctx, flatten([]*domain.CommentNode{tree}), rootID)
		return err
	})
	if err != nil {
		return 0, err
	}
	cascadeDeleted.Add(float64(deleted))
	return deleted, nil
}

// DeleteUnder removes every subtree attached to parent. Nothing attached is not an error.
func (c *Cascade) DeleteUnder(ctx context.Context, parent domain.Commentable) (int, error) {
	ctx, cancel := c.detach(ctx)
	defer cancel()

	var deleted int
	err := c.tx.Transaction(ctx, func(ctx context.Context) error {
		lockCtx := repository.WithLock(ctx, repository.LockForUpdate)
		trees, err := c.resolver.Children(lockCtx, parent)
		if err != nil {
			return err
		}
		deleted, err = c.deleteBottomUp(ctx, flatten(trees), 0)
		return err
	})
	if err != nil {
		return 0, err
	}
	cascadeDeleted.Add(float64(deleted))
	return deleted, nil
}

// DeleteByAuthor removes every comment of userID together with the replies below it.
// Comments already taken by an earlier subtree of the same author are skipped.
func (c *Cascade) DeleteByAuthor(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := c.detach(ctx)
	defer cancel()

	var deleted int
	err := c.tx.Transaction(ctx, func(ctx context.Context) error {
		ids, err := c.repo.IDsByUser(repository.WithLock(ctx, repository.LockForUpdate), userID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			n, err := c.DeleteTree(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			deleted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// deleteBottomUp walks a breadth-first listing backwards, so every node goes after its descendants.
// Rows already gone count as deleted, except rootID.
func (c *Cascade) deleteBottomUp(ctx context.Context, nodes []*domain.CommentNode, rootID int64) (int, error) {
	deleted := 0
	for i := len(nodes) - 1; i >= 0; i-- {
		id := nodes[i].Comment.ID
		err := c.repo.Delete(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, domain.ErrNotFound) && id != rootID:
			logrus.Debugf("comment %d already deleted during cascade", id)
			cascadeSkipped.Inc()
		default:
			return deleted, err
		}
	}
	return deleted, nil
}

func (c *Cascade) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
}
