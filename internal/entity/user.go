package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type UserGender string

const (
	GenderMale        UserGender = "male"
	GenderFemale      UserGender = "female"
	GenderOther       UserGender = "other"
	GenderUndisclosed UserGender = "prefer-not-to-say"
)

// User is the profile record for a person using the system. The password
// hash lives on the linked Credential, never here.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"type:varchar(100);not null"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`

	Age    *int        `gorm:"type:int"`
	Gender *UserGender `gorm:"type:varchar(20)"`
	Phone  *string     `gorm:"type:varchar(30)"`
	Avatar *string     `gorm:"type:text"`

	Role UserRole `gorm:"type:varchar(10);default:'user';not null"`

	IsActive        bool `gorm:"default:true"`
	IsEmailVerified bool `gorm:"default:false"`
	LastLogin       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Credential *Credential
}
