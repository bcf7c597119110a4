package services

import (
	"context"
	"io"

	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/imgcatalog/backend/pkg/optional"
)

// ImageFile is raw image content attached to a user request.
type ImageFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type CreateUserInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	ProfileImage *string
	Image        *ImageFile
}

type UpdateUserInput struct {
	Changes repository.UserChanges
	Image   *ImageFile
}

// UserService persists users, uploading an attached profile image first. An
// uploaded image wins over any URL the caller supplied, and a failed upload
// stops the write.
type UserService struct {
	users    *repository.UserRepository
	uploader ImageUploader
}

func NewUserService(users *repository.UserRepository, uploader ImageUploader) *UserService {
	return &UserService{users: users, uploader: uploader}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	profileImage := input.ProfileImage
	if input.Image != nil {
		result, err := s.uploadProfileImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		profileImage = &result.URL
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Password:     input.Password,
		ProfileImage: profileImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user_created", map[string]interface{}{
		"user_id":           user.ID,
		"has_profile_image": user.ProfileImage != nil,
	})
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	if _, err := s.users.Get(ctx, id); err != nil {
		return nil, err
	}

	changes := input.Changes
	if input.Image != nil {
		result, err := s.uploadProfileImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		changes.ProfileImage = optional.Some(result.URL)
	}

	user, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	logger.Info("user_updated", map[string]interface{}{
		"user_id":       user.ID,
		"image_updated": input.Image != nil,
	})
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("user_deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *UserService) uploadProfileImage(ctx context.Context, image *ImageFile) (*UploadResult, error) {
	return s.uploader.Upload(ctx, image.Name, image.Reader, image.Size)
}
