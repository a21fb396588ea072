package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/blog-comments/domain"
)

// PostRepository is a mock type for the PostRepository type
type PostRepository struct {
	mock.Mock
}

func (_m *PostRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Post), ret.Error(1)
}

func (_m *PostRepository) Store(ctx context.Context, p *domain.Post) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *PostRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *PostRepository) Query(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	ret := _m.Called(ctx, f)
	var r0 []domain.Post
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Post)
	}
	return r0, ret.Get(1).(int64), ret.Error(2)
}

func (_m *PostRepository) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ret := _m.Called(ctx, userID)
	var r0 []int64
	if v := ret.Get(0); v != nil {
		r0 = v.([]int64)
	}
	return r0, ret.Error(1)
}

func (_m *PostRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	ret := _m.Called(ctx, cursor, limit)
	var r0 []int64
	if v := ret.Get(0); v != nil {
		r0 = v.([]int64)
	}
	return r0, ret.Error(1)
}

func (_m *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

// PostDBRepository is a mock type for the PostDBRepository type
type PostDBRepository struct {
	mock.Mock
}

func (_m *PostDBRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Post), ret.Error(1)
}

func (_m *PostDBRepository) Store(ctx context.Context, p *domain.Post) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *PostDBRepository) Update(ctx context.Context, p *domain.Post) error {
	ret := _m.Called(ctx, p)
	return ret.Error(0)
}

func (_m *PostDBRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *PostDBRepository) Query(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	ret := _m.Called(ctx, f)
	var r0 []domain.Post
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Post)
	}
	return r0, ret.Get(1).(int64), ret.Error(2)
}

func (_m *PostDBRepository) CountComments(ctx context.Context, ids []int64) (map[int64]int64, error) {
	ret := _m.Called(ctx, ids)
	var r0 map[int64]int64
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int64]int64)
	}
	return r0, ret.Error(1)
}

func (_m *PostDBRepository) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ret := _m.Called(ctx, userID)
	var r0 []int64
	if v := ret.Get(0); v != nil {
		r0 = v.([]int64)
	}
	return r0, ret.Error(1)
}

func (_m *PostDBRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	ret := _m.Called(ctx, cursor, limit)
	var r0 []int64
	if v := ret.Get(0); v != nil {
		r0 = v.([]int64)
	}
	return r0, ret.Error(1)
}

// PostCache is a mock type for the PostCache type
type PostCache struct {
	mock.Mock
}

func (_m *PostCache) GetPost(ctx context.Context, id int64) (domain.Post, bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Post), ret.Bool(1), ret.Error(2)
}

func (_m *PostCache) SetPost(ctx context.Context, p *domain.Post, ttl time.Duration) error {
	ret := _m.Called(ctx, p, ttl)
	return ret.Error(0)
}

func (_m *PostCache) DeletePosts(ctx context.Context, ids ...int64) error {
	ret := _m.Called(ctx, ids)
	return ret.Error(0)
}

// PostUsecase is a mock type for the PostUsecase type
type PostUsecase struct {
	mock.Mock
}

func (_m *PostUsecase) Fetch(ctx context.Context, f domain.PostFilter) (domain.Page[domain.Post], error) {
	ret := _m.Called(ctx, f)
	return ret.Get(0).(domain.Page[domain.Post]), ret.Error(1)
}

func (_m *PostUsecase) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Post), ret.Error(1)
}

func (_m *PostUsecase) Store(ctx context.Context, caller domain.Caller, p *domain.Post) error {
	ret := _m.Called(ctx, caller, p)
	return ret.Error(0)
}

func (_m *PostUsecase) Update(ctx context.Context, caller domain.Caller, id int64, patch domain.PostPatch) (domain.Post, error) {
	ret := _m.Called(ctx, caller, id, patch)
	return ret.Get(0).(domain.Post), ret.Error(1)
}

func (_m *PostUsecase) Delete(ctx context.Context, caller domain.Caller, id int64) (domain.Post, error) {
	ret := _m.Called(ctx, caller, id)
	return ret.Get(0).(domain.Post), ret.Error(1)
}

func (_m *PostUsecase) Exists(ctx context.Context, id int64) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (_m *PostUsecase) InitBloomFilter(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
