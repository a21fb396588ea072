package mysql

import (
	"context"
	"time"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := conn(ctx, m.DB).First(&user, "id = ?", id).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) Insert(ctx context.Context, a *domain.User) error {
	userModel := model.NewUserFromDomain(a)

	result := conn(ctx, m.DB).Create(userModel)
	if result.Error != nil {
		return translateError(result.Error)
	}

	a.ID = userModel.ID
	a.CreatedAt = userModel.CreatedAt
	a.UpdatedAt = userModel.UpdatedAt

	return nil
}

func (m *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var user model.User
	if err := conn(ctx, m.DB).First(&user, "username = ?", username).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) GetByIDs(ctx context.Context, uids []int64) ([]domain.User, error) {
	if len(uids) == 0 {
		return []domain.User{}, nil
	}
	var users []model.User
	err := conn(ctx, m.DB).Model(&model.User{}).Where("id in ?", uids).Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}

func (m *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now()
	result := conn(ctx, m.DB).Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":       u.Name,
			"username":   u.Username,
			"password":   u.Password,
			"updated_at": u.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		// unchanged rows count as zero on MySQL without clientFoundRows
		if _, err := m.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

func (m *userRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, m.DB).Delete(&model.User{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
