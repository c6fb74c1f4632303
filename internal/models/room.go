package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Room struct {
	// ID приходит из URL при первом обращении к комнате
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName string
	Private     bool `gorm:"not null;default:false"`
	CreatedAt   time.Time

	// Связи
	Members []User `gorm:"many2many:room_members"`
}

// BeforeSave подставляет id, если display_name пустой
func (r *Room) BeforeSave(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.DisplayName == "" {
		r.DisplayName = r.ID.String()
	}
	return nil
}
