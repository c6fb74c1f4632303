package models

import (
	"time"

	"github.com/google/uuid"
)

// Message текущая голосовая запись пользователя в комнате.
// Новая запись перезаписывает объект в хранилище по тому же id,
// поэтому строка одна на пару (room, creator).
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_messages_room_creator"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_messages_room_creator"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Связи
	Room    Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Creator User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}
