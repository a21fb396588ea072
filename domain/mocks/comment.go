package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/blog-comments/domain"
)

// CommentUsecase is a mock type for the CommentUsecase type
type CommentUsecase struct {
	mock.Mock
}

func (_m *CommentUsecase) Create(ctx context.Context, caller domain.Caller, body string, parent domain.Commentable) (domain.Comment, error) {
	ret := _m.Called(ctx, caller, body, parent)
	return ret.Get(0).(domain.Comment), ret.Error(1)
}

func (_m *CommentUsecase) Update(ctx context.Context, caller domain.Caller, id int64, body string) (domain.Comment, error) {
	ret := _m.Called(ctx, caller, id, body)
	return ret.Get(0).(domain.Comment), ret.Error(1)
}

func (_m *CommentUsecase) Delete(ctx context.Context, caller domain.Caller, id int64) (domain.Comment, error) {
	ret := _m.Called(ctx, caller, id)
	return ret.Get(0).(domain.Comment), ret.Error(1)
}

func (_m *CommentUsecase) GetWithReplies(ctx context.Context, id int64) (*domain.CommentNode, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.CommentNode
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.CommentNode)
	}
	return r0, ret.Error(1)
}

func (_m *CommentUsecase) List(ctx context.Context, f domain.CommentFilter) (domain.Page[domain.Comment], error) {
	ret := _m.Called(ctx, f)
	return ret.Get(0).(domain.Page[domain.Comment]), ret.Error(1)
}

func (_m *CommentUsecase) ListPostComments(ctx context.Context, postID int64) ([]*domain.CommentNode, error) {
	ret := _m.Called(ctx, postID)
	var r0 []*domain.CommentNode
	if v := ret.Get(0); v != nil {
		r0 = v.([]*domain.CommentNode)
	}
	return r0, ret.Error(1)
}

func (_m *CommentUsecase) ListReplies(ctx context.Context, commentID int64) ([]*domain.CommentNode, error) {
	ret := _m.Called(ctx, commentID)
	var r0 []*domain.CommentNode
	if v := ret.Get(0); v != nil {
		r0 = v.([]*domain.CommentNode)
	}
	return r0, ret.Error(1)
}

// CommentCascade is a mock type for the CommentCascade type
type CommentCascade struct {
	mock.Mock
}

func (_m *CommentCascade) DeleteTree(ctx context.Context, rootID int64) (int, error) {
	ret := _m.Called(ctx, rootID)
	return ret.Int(0), ret.Error(1)
}

func (_m *CommentCascade) DeleteUnder(ctx context.Context, parent domain.Commentable) (int, error) {
	ret := _m.Called(ctx, parent)
	return ret.Int(0), ret.Error(1)
}
