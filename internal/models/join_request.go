package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequest заявка на вступление в приватную комнату.
// Не больше одной заявки на пару (user, room).
type JoinRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_join_requests_user_room"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_join_requests_user_room"`
	Timestamp time.Time `gorm:"autoCreateTime"`

	// Связи
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}
