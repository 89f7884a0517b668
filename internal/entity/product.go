package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description *string   `gorm:"type:text"`
	Price       float64   `gorm:"not null"`
	Category    *string   `gorm:"type:varchar(100)"`
	Image       *string   `gorm:"type:text"`
	Stock       int       `gorm:"not null;default:0"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
