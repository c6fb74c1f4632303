package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
)

// GetOrCreateMessage возвращает запись пользователя в комнате.
// Идентичность одна на пару (room, creator): повторная запись
// перезаписывает объект в хранилище, а не создает новую строку.
func (d *Database) GetOrCreateMessage(roomID, creatorID uuid.UUID) (*models.Message, error) {
	message := models.Message{RoomID: roomID, CreatorID: creatorID}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "creator_id"}},
		DoNothing: true,
	}).Create(&message).Error
	if err != nil {
		return nil, err
	}

	var existing models.Message
	err = d.db.Where("room_id = ? AND creator_id = ?", roomID, creatorID).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// AttachMessageToNotifications обновляет уведомления всех участников
// комнаты ссылкой на текущую запись автора. Для самого автора
// уведомление сразу помечается прочитанным.
func (d *Database) AttachMessageToNotifications(roomID, creatorID uuid.UUID) error {
	message, err := d.GetOrCreateMessage(roomID, creatorID)
	if err != nil {
		return err
	}

	members, err := d.GetRoomMembers(roomID)
	if err != nil {
		return err
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, member := range members {
			notification := models.Notification{UserID: member.ID, RoomID: roomID}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
				DoNothing: true,
			}).Create(&notification).Error
			if err != nil {
				return err
			}

			err = tx.Model(&models.Notification{}).
				Where("user_id = ? AND room_id = ?", member.ID, roomID).
				Updates(map[string]interface{}{
					"message_id": message.ID,
					"read":       member.ID == creatorID,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
