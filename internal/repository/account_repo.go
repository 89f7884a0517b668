package repository

import (
	"context"

	"shopadmin/internal/entity"

	"gorm.io/gorm"
)

// AccountRepository creates the User and its Credential in one transaction
// so a failed credential write can never leave an orphaned profile behind.
type AccountRepository interface {
	CreateWithCredential(ctx context.Context, user *entity.User, credential *entity.Credential) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateWithCredential(
	ctx context.Context,
	user *entity.User,
	credential *entity.Credential,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		credential.UserID = user.ID
		return tx.Create(credential).Error
	})
}
