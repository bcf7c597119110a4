package repository

import (
	"context"

	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/pkg/optional"
	"gorm.io/gorm"
)

type UserChanges struct {
	FirstName    optional.Value[string]
	LastName     optional.Value[string]
	Email        optional.Value[string]
	Password     optional.Value[string]
	ProfileImage optional.Value[string]
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update applies the supplied fields. An empty password leaves the stored one
// in place.
func (r *UserRepository) Update(ctx context.Context, id uint, changes UserChanges) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err)
		}

		if firstName, ok := changes.FirstName.Get(); ok {
			user.FirstName = firstName
		}
		if lastName, ok := changes.LastName.Get(); ok {
			user.LastName = lastName
		}
		if email, ok := changes.Email.Get(); ok {
			user.Email = email
		}
		if password, ok := changes.Password.Get(); ok && password != "" {
			user.Password = password
		}
		if profileImage, ok := changes.ProfileImage.Get(); ok {
			user.ProfileImage = &profileImage
		}
		user.Touch(tx.NowFunc())

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
