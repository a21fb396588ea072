package comment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/domain/mocks"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

var (
	userA = domain.Caller{UserID: 1}
	userB = domain.Caller{UserID: 2}
)

type fixture struct {
	store   *memStore
	tx      *memTx
	users   *mocks.UserRepository
	evictor *mocks.CacheEvictWorker
	svc     *service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	users := new(mocks.UserRepository)
	users.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.User{
		{ID: 1, Name: "Alice", Username: "alice", Password: "hash"},
		{ID: 2, Name: "Bob", Username: "bob", Password: "hash"},
	}, nil).Maybe()
	evictor := new(mocks.CacheEvictWorker)
	evictor.On("Send", mock.Anything).Maybe()

	postExists := func(_ context.Context, id int64) (bool, error) {
		return id == 1, nil
	}
	tx := &memTx{store: store}
	svc := NewService(store, users, tx, postExists, evictor, Config{
		DefaultPageSize: 15,
		MaxPageSize:     100,
		CascadeTimeout:  time.Second,
	})
	return &fixture{store: store, tx: tx, users: users, evictor: evictor, svc: svc}
}

// scenario builds post 1 <- C1 (B) <- C2 (A) <- C3 (B)
func (f *fixture) scenario(t *testing.T) (domain.Comment, domain.Comment, domain.Comment) {
	t.Helper()
	ctx := context.Background()
	c1, err := f.svc.Create(ctx, userB, "Nice post", domain.PostRef(1))
	require.NoError(t, err)
	c2, err := f.svc.Create(ctx, userA, "Thanks", domain.CommentRef(c1.ID))
	require.NoError(t, err)
	c3, err := f.svc.Create(ctx, userB, "Welcome", domain.CommentRef(c2.ID))
	require.NoError(t, err)
	return c1, c2, c3
}

func TestServiceCreate(t *testing.T) {
	f := newFixture(t)
	c1, c2, c3 := f.scenario(t)

	assert.Equal(t, []int64{10, 11, 12}, []int64{c1.ID, c2.ID, c3.ID})
	assert.Equal(t, domain.PostRef(1), c1.Parent)
	assert.Equal(t, domain.CommentRef(10), c2.Parent)
	require.NotNil(t, c2.User)
	assert.Equal(t, "Alice", c2.User.Name)
	assert.Empty(t, c2.User.Password)
	assert.False(t, c1.CreatedAt.IsZero())

	// only the top-level comment changes the post's cached comment count
	f.evictor.AssertNumberOfCalls(t, "Send", 1)
	f.evictor.AssertCalled(t, "Send", int64(1))

	found, err := f.store.GetByID(context.Background(), c3.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", found.Body)
}

func TestServiceCreateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.Caller{}, "hello", domain.PostRef(1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Create(ctx, userA, "   ", domain.PostRef(1))
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Create(ctx, userA, "hello", domain.Commentable{Kind: "video", ID: 1})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Create(ctx, userA, "hello", domain.PostRef(99))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Create(ctx, userA, "hello", domain.CommentRef(99))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.store.count())
}

func TestServiceGetWithReplies(t *testing.T) {
	f := newFixture(t)
	c1, c2, c3 := f.scenario(t)

	tree, err := f.svc.GetWithReplies(context.Background(), c1.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, tree.Comment.ID)
	assert.Equal(t, int64(1), tree.Comment.RepliesCount)
	require.Len(t, tree.Replies, 1)
	assert.Equal(t, c2.ID, tree.Replies[0].Comment.ID)
	require.Len(t, tree.Replies[0].Replies, 1)
	leaf := tree.Replies[0].Replies[0]
	assert.Equal(t, c3.ID, leaf.Comment.ID)
	assert.Zero(t, leaf.Comment.RepliesCount)
	assert.Equal(t, "Bob", leaf.Comment.User.Name)

	_, err = f.svc.GetWithReplies(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceListPostCommentsAndReplies(t *testing.T) {
	f := newFixture(t)
	c1, c2, c3 := f.scenario(t)
	ctx := context.Background()

	roots, err := f.svc.ListPostComments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID}, ids(roots))
	assert.Equal(t, []int64{c2.ID}, ids(roots[0].Replies))

	_, err = f.svc.ListPostComments(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	replies, err := f.svc.ListReplies(ctx, c2.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c3.ID}, ids(replies))

	_, err = f.svc.ListReplies(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceUpdateAuthorization(t *testing.T) {
	f := newFixture(t)
	_, c2, _ := f.scenario(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, userB, c2.ID, "hijacked")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Update(ctx, domain.Caller{}, c2.ID, "anonymous")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Update(ctx, userA, c2.ID, "")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Update(ctx, userA, 404, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := f.svc.Update(ctx, userA, c2.ID, "Thanks a lot")
	require.NoError(t, err)
	assert.Equal(t, "Thanks a lot", updated.Body)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, c2.Parent, updated.Parent)
	// c3 still hangs below c2
	assert.EqualValues(t, 1, updated.RepliesCount)
}

func TestServiceDeleteCascades(t *testing.T) {
	f := newFixture(t)
	c1, c2, _ := f.scenario(t)
	ctx := context.Background()

	_, err := f.svc.Delete(ctx, userA, c1.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Delete(ctx, domain.Caller{}, c1.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 3, f.store.count())

	deleted, err := f.svc.Delete(ctx, userB, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, deleted.ID)
	assert.Zero(t, f.store.count())

	_, err = f.svc.Delete(ctx, userB, c1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetWithReplies(ctx, c2.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	roots, err := f.svc.ListPostComments(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestServiceDeleteSubtreeKeepsAncestors(t *testing.T) {
	f := newFixture(t)
	c1, c2, _ := f.scenario(t)

	_, err := f.svc.Delete(context.Background(), userA, c2.ID)
	require.NoError(t, err)

	tree, err := f.svc.GetWithReplies(context.Background(), c1.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Replies)
	assert.Equal(t, 1, f.store.count())
}

func TestServiceList(t *testing.T) {
	f := newFixture(t)
	c1, _, _ := f.scenario(t)

	page, err := f.svc.List(context.Background(), domain.CommentFilter{ParentKind: domain.CommentablePost})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c1.ID, page.Items[0].ID)
	assert.Equal(t, "Bob", page.Items[0].User.Name)
	assert.Equal(t, int64(1), page.Items[0].RepliesCount)

	first, err := f.svc.List(context.Background(), domain.CommentFilter{PageSize: 2})
	require.NoError(t, err)
	second, err := f.svc.List(context.Background(), domain.CommentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Meta.TotalPages)
	assert.Equal(t, []int64{10, 11, 12}, append(commentIDs(first.Items), commentIDs(second.Items)...))
}

func TestServiceAuthorLookupFailureDegrades(t *testing.T) {
	f := newFixture(t)
	users := new(mocks.UserRepository)
	users.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	f.svc.userRepo = users

	c, err := f.svc.Create(context.Background(), userA, faker.Sentence(), domain.PostRef(1))
	require.NoError(t, err)
	assert.Nil(t, c.User)
}

func TestServiceReplyToCommentWrittenElsewhere(t *testing.T) {
	f := newFixture(t)

	// the parent row exists although this service never created it
	parent := domain.Comment{Body: "imported", UserID: 2, Parent: domain.PostRef(1)}
	require.NoError(t, f.store.Create(context.Background(), &parent))

	reply, err := f.svc.Create(context.Background(), userA, "reply", domain.CommentRef(parent.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.CommentRef(parent.ID), reply.Parent)

	_, err = f.svc.Create(context.Background(), userA, "reply", domain.CommentRef(77))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceCreateLocksParentForShare(t *testing.T) {
	f := newFixture(t)
	var seen []bool
	f.svc.parents[domain.CommentablePost] = func(ctx context.Context, id int64) (bool, error) {
		s, ok := repository.LockFrom(ctx)
		seen = append(seen, ok && s == repository.LockForShare)
		return true, nil
	}

	_, err := f.svc.Create(context.Background(), userA, "hi", domain.PostRef(5))
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, seen)
	assert.Equal(t, 1, f.tx.calls)
}
