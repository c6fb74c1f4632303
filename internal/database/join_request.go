package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

// GetOrCreateJoinRequest создает заявку, если ее еще нет.
// Дубликат при гонке гасится уникальным индексом (user_id, room_id).
func (d *Database) GetOrCreateJoinRequest(userID, roomID uuid.UUID) error {
	request := models.JoinRequest{UserID: userID, RoomID: roomID}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoNothing: true,
	}).Create(&request).Error
}

func (d *Database) DeleteJoinRequest(userID, roomID uuid.UUID) error {
	return d.db.Delete(&models.JoinRequest{},
		"user_id = ? AND room_id = ?", userID, roomID).Error
}

func (d *Database) DeleteAllJoinRequests(roomID uuid.UUID) error {
	return d.db.Delete(&models.JoinRequest{}, "room_id = ?", roomID).Error
}

// GetJoinRequests возвращает заявки комнаты, свежие первыми
func (d *Database) GetJoinRequests(roomID uuid.UUID) ([]repo.JoinRequestEntry, error) {
	var requests []models.JoinRequest
	err := d.db.Preload("User").
		Where("room_id = ?", roomID).
		Order("timestamp DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	entries := make([]repo.JoinRequestEntry, len(requests))
	for i, request := range requests {
		entries[i] = repo.JoinRequestEntry{
			UserID:      request.UserID,
			Username:    request.User.Username,
			DisplayName: request.User.DisplayName,
			Timestamp:   request.Timestamp,
		}
	}
	return entries, nil
}

func (d *Database) CountJoinRequests(roomID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.JoinRequest{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// GetUserJoinRequestRoomIDs возвращает id комнат с ожидающей заявкой пользователя
func (d *Database) GetUserJoinRequestRoomIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.Model(&models.JoinRequest{}).
		Where("user_id = ?", userID).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
