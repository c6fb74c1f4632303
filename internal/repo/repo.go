package repo

import (
	"time"

	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
)

// JoinRequestEntry заявка на вступление вместе с данными пользователя.
type JoinRequestEntry struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	Timestamp   time.Time
}

// NotificationEntry строка уведомления вместе с данными комнаты
// и автором последней записи.
type NotificationEntry struct {
	RoomID          uuid.UUID
	RoomDisplayName string
	Read            bool
	Timestamp       time.Time
	MessageCreator  string
}

// Gateway контракт хранилища для сессий. Уникальность пар
// (user, room) у заявок и уведомлений обеспечивается на записи,
// поэтому get-or-create операции безопасны при конкурентных вызовах.
type Gateway interface {
	SaveUser(user *models.User) error
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateUserDisplayName(userID uuid.UUID, name string) error
	GetUserRoomIDs(userID uuid.UUID) ([]uuid.UUID, error)

	GetOrCreateRoom(id uuid.UUID) (*models.Room, error)
	GetRoom(id uuid.UUID) (*models.Room, bool, error)
	GetRoomMembers(roomID uuid.UUID) ([]models.User, error)
	AddRoomMember(roomID, userID uuid.UUID) (bool, error)
	RemoveRoomMember(roomID, userID uuid.UUID) error
	SetRoomPrivacy(roomID uuid.UUID, private bool) error
	SetRoomDisplayName(roomID uuid.UUID, name string) error
	DeleteRoom(roomID uuid.UUID) error

	GetOrCreateJoinRequest(userID, roomID uuid.UUID) error
	DeleteJoinRequest(userID, roomID uuid.UUID) error
	DeleteAllJoinRequests(roomID uuid.UUID) error
	GetJoinRequests(roomID uuid.UUID) ([]JoinRequestEntry, error)
	CountJoinRequests(roomID uuid.UUID) (int64, error)
	GetUserJoinRequestRoomIDs(userID uuid.UUID) ([]uuid.UUID, error)

	GetOrCreateNotification(userID, roomID uuid.UUID) error
	MarkNotificationRead(userID, roomID uuid.UUID) error
	DeleteNotification(userID, roomID uuid.UUID) error
	GetUserNotifications(userID uuid.UUID) ([]NotificationEntry, error)
	AllNotifiedUsernames() ([]string, error)

	GetOrCreateMessage(roomID, creatorID uuid.UUID) (*models.Message, error)
	AttachMessageToNotifications(roomID, creatorID uuid.UUID) error
}
