package repository

import (
	"context"
	"errors"
	"time"

	"shopadmin/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)
	MarkLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	var credential entity.Credential
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&credential).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	var credential entity.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credential).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) MarkLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Credential{}).
		Where("id = ?", id).
		Update("last_login", &at).
		Error
}
