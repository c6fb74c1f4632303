package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
)

// GetOrCreateRoom атомарно создает комнату при первом обращении.
// Конкурентное создание схлопывается в одну строку через ON CONFLICT.
func (d *Database) GetOrCreateRoom(id uuid.UUID) (*models.Room, error) {
	room := models.Room{ID: id}
	err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&room).Error
	if err != nil {
		return nil, err
	}

	var existing models.Room
	if err := d.db.Preload("Members").First(&existing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// GetRoom возвращает комнату с участниками; false значит комната еще не создана
func (d *Database) GetRoom(id uuid.UUID) (*models.Room, bool, error) {
	var room models.Room
	err := d.db.Preload("Members").First(&room, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &room, true, nil
}

func (d *Database) GetRoomMembers(roomID uuid.UUID) ([]models.User, error) {
	room, exists, err := d.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []models.User{}, nil
	}
	return room.Members, nil
}

// AddRoomMember добавляет пользователя в участники.
// Возвращает false, если пользователь уже состоял в комнате.
func (d *Database) AddRoomMember(roomID, userID uuid.UUID) (bool, error) {
	room, err := d.GetOrCreateRoom(roomID)
	if err != nil {
		return false, err
	}

	for _, member := range room.Members {
		if member.ID == userID {
			return false, nil
		}
	}

	var user models.User
	if err := d.db.First(&user, "id = ?", userID).Error; err != nil {
		return false, err
	}

	if err := d.db.Model(room).Association("Members").Append(&user); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Database) RemoveRoomMember(roomID, userID uuid.UUID) error {
	var room models.Room
	if err := d.db.First(&room, "id = ?", roomID).Error; err != nil {
		return err
	}

	var user models.User
	if err := d.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return d.db.Model(&room).Association("Members").Delete(&user)
}

func (d *Database) SetRoomPrivacy(roomID uuid.UUID, private bool) error {
	return d.db.Model(&models.Room{}).Where("id = ?", roomID).
		Update("private", private).Error
}

func (d *Database) SetRoomDisplayName(roomID uuid.UUID, name string) error {
	return d.db.Model(&models.Room{}).Where("id = ?", roomID).
		Update("display_name", name).Error
}

func (d *Database) DeleteRoom(roomID uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.JoinRequest{}, "room_id = ?", roomID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Notification{}, "room_id = ?", roomID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Message{}, "room_id = ?", roomID).Error; err != nil {
			return err
		}

		var room models.Room
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			return err
		}

		if err := tx.Model(&room).Association("Members").Clear(); err != nil {
			return err
		}

		return tx.Delete(&room).Error
	})
}
