package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PhoneNumber  string
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time

	// Связи
	Rooms []Room `gorm:"many2many:room_members"`
}

// BeforeSave подставляет username, если display_name пустой
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	return nil
}
