package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential holds the authentication record for exactly one User. Email
// mirrors User.Email in lowercase so login can resolve by a single lookup.
type Credential struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:text;not null"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
