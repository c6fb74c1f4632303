package database

import (
	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) GetUser(id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateUserDisplayName(userID uuid.UUID, name string) error {
	return d.db.Model(&models.User{}).Where("id = ?", userID).
		Update("display_name", name).Error
}

// GetUserRoomIDs возвращает id комнат, где пользователь состоит участником
func (d *Database) GetUserRoomIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.Table("room_members").
		Where("user_id = ?", userID).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
