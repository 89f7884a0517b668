package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopadmin/internal/dto"
	"shopadmin/internal/entity"
	"shopadmin/internal/repository"
	"shopadmin/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	users  repository.UserRepository
	images ImageStore
	clock  Clock
}

func NewUserService(users repository.UserRepository, images ImageStore, clock Clock) *UserService {
	return &UserService{users: users, images: images, clock: clock}
}

func (s *UserService) List(ctx context.Context, query dto.PageQuery) ([]entity.User, int64, error) {
	query = query.Normalize()
	return s.users.List(ctx, query.Limit, query.Offset())
}

// Create adds a profile without a credential; such users exist in the
// directory but cannot log in until they sign up themselves.
func (s *UserService) Create(ctx context.Context, input dto.CreateUserRequest) (*entity.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}
	role := entity.UserRole(input.Role)
	if input.Role == "" {
		role = entity.UserRoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidInput
	}

	var gender *entity.UserGender
	if input.Gender != nil {
		value := entity.UserGender(*input.Gender)
		gender = &value
	}
	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    utils.NormalizeEmail(input.Email),
		Age:      input.Age,
		Gender:   gender,
		Phone:    input.Phone,
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = utils.NormalizeEmail(*input.Email)
	}
	if input.Role != nil {
		role := entity.UserRole(*input.Role)
		if !role.Valid() {
			return nil, ErrInvalidInput
		}
		user.Role = role
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Gender != nil {
		value := entity.UserGender(*input.Gender)
		user.Gender = &value
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Active != nil {
		user.IsActive = *input.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Gender != nil {
		value := entity.UserGender(*input.Gender)
		user.Gender = &value
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar decodes an inline data-URI image, stores it in the object
// store, and saves the resulting URL on the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID uuid.UUID, imageData string) (*entity.User, error) {
	if s.images == nil {
		return nil, ErrUploadFailed
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	image, err := utils.ParseImageDataURL(imageData)
	if err != nil {
		return nil, ErrInvalidInput
	}

	key := fmt.Sprintf("avatars/%s-%d.%s", user.ID, s.now().UnixMilli(), image.Ext)
	url, err := s.images.Put(ctx, key, image.Bytes, image.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, err)
	}

	user.Avatar = &url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
