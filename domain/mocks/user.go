package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/blog-comments/domain"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ret := _m.Called(ctx, u)
	return ret.Error(0)
}

func (_m *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserRepository) GetByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	ret := _m.Called(ctx, userIDs)
	var r0 []domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ret := _m.Called(ctx, u)
	return ret.Error(0)
}

func (_m *UserRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// UserUsecase is a mock type for the UserUsecase type
type UserUsecase struct {
	mock.Mock
}

func (_m *UserUsecase) Register(ctx context.Context, name, username, password string) (domain.User, error) {
	ret := _m.Called(ctx, name, username, password)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserUsecase) Login(ctx context.Context, username, password string) (string, error) {
	ret := _m.Called(ctx, username, password)
	return ret.String(0), ret.Error(1)
}

func (_m *UserUsecase) ParseToken(token string) (int64, error) {
	ret := _m.Called(token)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *UserUsecase) GetByID(ctx context.Context, id int64) (domain.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserUsecase) Update(ctx context.Context, caller domain.Caller, patch domain.UserPatch) (domain.User, error) {
	ret := _m.Called(ctx, caller, patch)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserUsecase) Delete(ctx context.Context, caller domain.Caller) (domain.User, error) {
	ret := _m.Called(ctx, caller)
	return ret.Get(0).(domain.User), ret.Error(1)
}

// AuthoredContentRemover is a mock type for the AuthoredContentRemover type
type AuthoredContentRemover struct {
	mock.Mock
}

func (_m *AuthoredContentRemover) DeleteByAuthor(ctx context.Context, userID int64) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}
