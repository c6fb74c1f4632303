package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification бейдж непрочитанной активности пользователя в комнате.
// Не больше одной записи на пару (user, room); timestamp обновляется
// при каждой записи.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_user_room"`
	RoomID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_user_room"`
	MessageID *uuid.UUID `gorm:"type:uuid"`
	Read      bool       `gorm:"not null;default:false"`
	Timestamp time.Time  `gorm:"autoUpdateTime"`

	// Связи
	User    User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Room    Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Message *Message
}
