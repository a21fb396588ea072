package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/blog-comments/domain"
)

// BloomRepository is a mock type for the BloomRepository type
type BloomRepository struct {
	mock.Mock
}

func (_m *BloomRepository) Add(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *BloomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (_m *BloomRepository) Rebuild(ctx context.Context, fetch domain.IDPager) error {
	ret := _m.Called(ctx, fetch)
	return ret.Error(0)
}

// CacheEvictWorker is a mock type for the CacheEvictWorker type
type CacheEvictWorker struct {
	mock.Mock
}

func (_m *CacheEvictWorker) Start(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *CacheEvictWorker) Send(postID int64) {
	_m.Called(postID)
}

// Transactor runs fn inline, recording how often a transaction was opened.
type Transactor struct {
	mock.Mock
}

func (_m *Transactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	_m.Called(ctx)
	return fn(ctx)
}
