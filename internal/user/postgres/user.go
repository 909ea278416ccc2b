package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/user"
	"github.com/frahmantamala/custom-timesheet/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&model), nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID int64) ([]string, error) {
	roles := []string{}
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error
	return roles, err
}

// Create inserts the user and its roles in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := user.ToDataModel(u)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		for _, role := range u.Roles {
			if err := tx.Create(&userDatamodel.UserRole{UserID: model.ID, Role: role}).Error; err != nil {
				return err
			}
		}
		u.ID = model.ID
		u.CreatedAt = model.CreatedAt
		u.UpdatedAt = model.UpdatedAt
		return nil
	})
}
