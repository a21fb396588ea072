package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

// Config tunes listings and cascades.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	CascadeTimeout  time.Duration
}

type service struct {
	commentRepo domain.CommentRepository
	userRepo    domain.UserRepository
	tx          domain.Transactor
	evictor     domain.CacheEvictWorker

	resolver *Resolver
	cascade  *Cascade
	query    *QueryService

	// parents maps each commentable kind to its existence check
	parents map[domain.CommentableKind]domain.ExistsFunc
}

var _ domain.CommentUsecase = (*service)(nil)

// NewService wires the facade. evictor may be nil.
func NewService(
	commentRepo domain.CommentRepository,
	userRepo domain.UserRepository,
	tx domain.Transactor,
	postExists domain.ExistsFunc,
	evictor domain.CacheEvictWorker,
	cfg Config,
) *service {
	s := &service{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		tx:          tx,
		evictor:     evictor,
		resolver:    NewResolver(commentRepo),
		cascade:     NewCascade(commentRepo, tx, cfg.CascadeTimeout),
		query:       NewQueryService(commentRepo, cfg.DefaultPageSize, cfg.MaxPageSize),
	}
	s.parents = map[domain.CommentableKind]domain.ExistsFunc{
		domain.CommentablePost:    postExists,
		domain.CommentableComment: s.commentExists,
	}
	return s
}

func (s *service) Create(ctx context.Context, caller domain.Caller, body string, parent domain.Commentable) (domain.Comment, error) {
	if !caller.Authenticated() {
		return domain.Comment{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateBody(body); err != nil {
		return domain.Comment{}, err
	}
	if err := parent.Validate(); err != nil {
		return domain.Comment{}, err
	}

	c := domain.Comment{
		Body:   body,
		UserID: caller.UserID,
		Parent: parent,
	}
	// the shared lock on the parent keeps a cascade from deleting it under the new reply
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.mustExist(repository.WithLock(ctx, repository.LockForShare), parent); err != nil {
			return err
		}
		return s.commentRepo.Create(ctx, &c)
	})
	if err != nil {
		return domain.Comment{}, err
	}

	s.evictParentPost(c.Parent)
	s.fillUsers(ctx, []*domain.Comment{&c})
	return c, nil
}

func (s *service) Update(ctx context.Context, caller domain.Caller, id int64, body string) (domain.Comment, error) {
	existing, err := s.authorize(ctx, caller, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := domain.ValidateBody(body); err != nil {
		return domain.Comment{}, err
	}

	updated, err := s.commentRepo.Update(ctx, existing.ID, body)
	if err != nil {
		return domain.Comment{}, err
	}
	counts, err := s.commentRepo.CountReplies(ctx, []int64{updated.ID})
	if err != nil {
		logrus.Warnf("failed to count replies of comment %d: %v", updated.ID, err)
	}
	updated.RepliesCount = counts[updated.ID]
	s.fillUsers(ctx, []*domain.Comment{&updated})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, id int64) (domain.Comment, error) {
	existing, err := s.authorize(ctx, caller, id)
	if err != nil {
		return domain.Comment{}, err
	}

	n, err := s.cascade.DeleteTree(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	logrus.Infof("comment %d deleted by user %d, %d rows removed", id, caller.UserID, n)

	s.evictParentPost(existing.Parent)
	s.fillUsers(ctx, []*domain.Comment{&existing})
	return existing, nil
}

func (s *service) GetWithReplies(ctx context.Context, id int64) (*domain.CommentNode, error) {
	root, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, err := s.resolver.Tree(ctx, root)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, []*domain.CommentNode{tree})
	return tree, nil
}

func (s *service) ListPostComments(ctx context.Context, postID int64) ([]*domain.CommentNode, error) {
	if err := s.mustExist(ctx, domain.PostRef(postID)); err != nil {
		return nil, err
	}
	return s.forest(ctx, domain.PostRef(postID))
}

func (s *service) ListReplies(ctx context.Context, commentID int64) ([]*domain.CommentNode, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.forest(ctx, domain.CommentRef(commentID))
}

func (s *service) List(ctx context.Context, f domain.CommentFilter) (domain.Page[domain.Comment], error) {
	page, err := s.query.List(ctx, f)
	if err != nil {
		return page, err
	}
	ptrs := make([]*domain.Comment, len(page.Items))
	for i := range page.Items {
		ptrs[i] = &page.Items[i]
	}
	s.fillUsers(ctx, ptrs)
	return page, nil
}

func (s *service) forest(ctx context.Context, parent domain.Commentable) ([]*domain.CommentNode, error) {
	nodes, err := s.resolver.Children(ctx, parent)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, nodes)
	return nodes, nil
}

// authorize loads the comment and checks the caller wrote it.
func (s *service) authorize(ctx context.Context, caller domain.Caller, id int64) (domain.Comment, error) {
	if !caller.Authenticated() {
		return domain.Comment{}, domain.ErrUnauthorized
	}
	existing, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if existing.UserID != caller.UserID {
		return domain.Comment{}, domain.ErrForbidden
	}
	return existing, nil
}

func (s *service) mustExist(ctx context.Context, parent domain.Commentable) error {
	check, ok := s.parents[parent.Kind]
	if !ok || check == nil {
		return fmt.Errorf("invalid commentable type %q: %w", parent.Kind, domain.ErrBadParamInput)
	}
	exists, err := check(ctx, parent.ID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s %d: %w", parent.Kind, parent.ID, domain.ErrNotFound)
	}
	return nil
}

// commentExists reads the row itself, so a lock hint in ctx holds the parent.
func (s *service) commentExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.commentRepo.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *service) evictParentPost(parent domain.Commentable) {
	if s.evictor != nil && parent.Kind == domain.CommentablePost {
		s.evictor.Send(parent.ID)
	}
}

// decorate fills authors and reply counts on every node of the trees.
func (s *service) decorate(ctx context.Context, roots []*domain.CommentNode) {
	nodes := flatten(roots)
	comments := make([]*domain.Comment, len(nodes))
	for i, n := range nodes {
		n.Comment.RepliesCount = int64(len(n.Replies))
		comments[i] = &n.Comment
	}
	s.fillUsers(ctx, comments)
}

// fillUsers attaches author details. A lookup failure only degrades the response.
func (s *service) fillUsers(ctx context.Context, comments []*domain.Comment) {
	if len(comments) == 0 || s.userRepo == nil {
		return
	}
	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		logrus.Warnf("failed to load comment authors: %v", err)
		return
	}
	byID := make(map[int64]*domain.User, len(users))
	for i := range users {
		users[i].Password = ""
		byID[users[i].ID] = &users[i]
	}
	for _, c := range comments {
		c.User = byID[c.UserID]
	}
}
