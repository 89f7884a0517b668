package repository

import (
	"context"
	"time"

	"shopadmin/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationTokenRepository interface {
	Create(ctx context.Context, token *entity.VerificationToken) error
	// Consume redeems a token by digest, atomically marking it used so a
	// second redemption of the same token comes back empty. Returns
	// (nil, nil) when no usable token matches.
	Consume(ctx context.Context, tokenHash string, tokenType entity.VerificationType, now time.Time) (*entity.VerificationToken, error)
}

type verificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Create(ctx context.Context, t *entity.VerificationToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *verificationTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
	tokenType entity.VerificationType,
	now time.Time,
) (*entity.VerificationToken, error) {

	var token entity.VerificationToken
	result := r.db.WithContext(ctx).
		Model(&token).
		Clauses(clause.Returning{}).
		Where("token_hash = ? AND type = ?", tokenHash, tokenType).
		Where("used_at IS NULL AND expires_at > ?", now).
		Update("used_at", now)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &token, nil
}
