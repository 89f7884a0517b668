package entity

import (
	"time"

	"github.com/google/uuid"
)

type VerificationType string

const (
	EmailVerify VerificationType = "email_verify"
)

type VerificationToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string           `gorm:"type:text;not null;index"`
	Type      VerificationType `gorm:"type:varchar(20);not null"`

	ExpiresAt time.Time
	UsedAt    *time.Time

	CreatedAt time.Time
}

// Usable reports whether the token can still be redeemed at the given time.
func (t *VerificationToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
