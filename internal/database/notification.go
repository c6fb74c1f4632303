package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

// GetOrCreateNotification создает уведомление, если его еще нет.
// Существующее не трогается, чтобы не сбрасывать флаг и timestamp.
func (d *Database) GetOrCreateNotification(userID, roomID uuid.UUID) error {
	notification := models.Notification{UserID: userID, RoomID: roomID}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoNothing: true,
	}).Create(&notification).Error
}

// MarkNotificationRead помечает уведомление прочитанным.
// Уже прочитанное не перезаписывается, чтобы не обновлять timestamp.
func (d *Database) MarkNotificationRead(userID, roomID uuid.UUID) error {
	return d.db.Model(&models.Notification{}).
		Where("user_id = ? AND room_id = ? AND read = false", userID, roomID).
		Update("read", true).Error
}

func (d *Database) DeleteNotification(userID, roomID uuid.UUID) error {
	return d.db.Delete(&models.Notification{},
		"user_id = ? AND room_id = ?", userID, roomID).Error
}

func (d *Database) GetUserNotifications(userID uuid.UUID) ([]repo.NotificationEntry, error) {
	var notifications []models.Notification
	err := d.db.Preload("Room").
		Preload("Message").
		Preload("Message.Creator").
		Where("user_id = ?", userID).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	entries := make([]repo.NotificationEntry, len(notifications))
	for i, notification := range notifications {
		entry := repo.NotificationEntry{
			RoomID:          notification.RoomID,
			RoomDisplayName: notification.Room.DisplayName,
			Read:            notification.Read,
			Timestamp:       notification.Timestamp,
		}
		if notification.Message != nil {
			entry.MessageCreator = notification.Message.Creator.DisplayName
		}
		entries[i] = entry
	}
	return entries, nil
}

// AllNotifiedUsernames возвращает всех пользователей, у которых есть
// хоть одно уведомление
func (d *Database) AllNotifiedUsernames() ([]string, error) {
	var usernames []string
	err := d.db.Model(&models.Notification{}).
		Distinct().
		Joins("JOIN users ON users.id = notifications.user_id").
		Pluck("users.username", &usernames).Error
	if err != nil {
		return nil, err
	}
	return usernames, nil
}
