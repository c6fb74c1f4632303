package handlers

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

type memoryNotification struct {
	read      bool
	timestamp time.Time
	creatorID *uuid.UUID
}

// memoryGateway хранилище в памяти для тестов сессий.
// Семантика get-or-create повторяет поведение базы.
type memoryGateway struct {
	mu sync.Mutex

	users         map[uuid.UUID]*models.User
	rooms         map[uuid.UUID]*models.Room
	members       map[uuid.UUID][]uuid.UUID
	joinRequests  map[uuid.UUID]map[uuid.UUID]time.Time
	notifications map[uuid.UUID]map[uuid.UUID]*memoryNotification
	messages      map[uuid.UUID]map[uuid.UUID]*models.Message
}

var _ repo.Gateway = (*memoryGateway)(nil)

func newMemoryGateway() *memoryGateway {
	return &memoryGateway{
		users:         make(map[uuid.UUID]*models.User),
		rooms:         make(map[uuid.UUID]*models.Room),
		members:       make(map[uuid.UUID][]uuid.UUID),
		joinRequests:  make(map[uuid.UUID]map[uuid.UUID]time.Time),
		notifications: make(map[uuid.UUID]map[uuid.UUID]*memoryNotification),
		messages:      make(map[uuid.UUID]map[uuid.UUID]*models.Message),
	}
}

func (g *memoryGateway) SaveUser(user *models.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	stored := *user
	g.users[user.ID] = &stored
	return nil
}

func (g *memoryGateway) GetUser(id uuid.UUID) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	user, ok := g.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	return &copied, nil
}

func (g *memoryGateway) GetUserByUsername(username string) (*models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, user := range g.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.New("user not found")
}

func (g *memoryGateway) UpdateUserDisplayName(userID uuid.UUID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	user, ok := g.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	user.DisplayName = name
	return nil
}

func (g *memoryGateway) GetUserRoomIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var roomIDs []uuid.UUID
	for roomID, members := range g.members {
		for _, memberID := range members {
			if memberID == userID {
				roomIDs = append(roomIDs, roomID)
				break
			}
		}
	}
	return roomIDs, nil
}

func (g *memoryGateway) GetOrCreateRoom(id uuid.UUID) (*models.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	if !ok {
		room = &models.Room{ID: id, DisplayName: id.String()}
		g.rooms[id] = room
	}
	return g.roomCopy(room), nil
}

func (g *memoryGateway) GetRoom(id uuid.UUID) (*models.Room, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	if !ok {
		return nil, false, nil
	}
	return g.roomCopy(room), true, nil
}

// roomCopy собирает комнату с участниками; вызывается под мьютексом
func (g *memoryGateway) roomCopy(room *models.Room) *models.Room {
	copied := *room
	copied.Members = g.memberList(room.ID)
	return &copied
}

func (g *memoryGateway) memberList(roomID uuid.UUID) []models.User {
	var members []models.User
	for _, memberID := range g.members[roomID] {
		if user, ok := g.users[memberID]; ok {
			members = append(members, *user)
		}
	}
	return members
}

func (g *memoryGateway) GetRoomMembers(roomID uuid.UUID) ([]models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.memberList(roomID), nil
}

func (g *memoryGateway) AddRoomMember(roomID, userID uuid.UUID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, memberID := range g.members[roomID] {
		if memberID == userID {
			return false, nil
		}
	}
	g.members[roomID] = append(g.members[roomID], userID)
	return true, nil
}

func (g *memoryGateway) RemoveRoomMember(roomID, userID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	members := g.members[roomID]
	for i, memberID := range members {
		if memberID == userID {
			g.members[roomID] = append(members[:i], members[i+1:]...)
			break
		}
	}
	return nil
}

func (g *memoryGateway) SetRoomPrivacy(roomID uuid.UUID, private bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return errors.New("room not found")
	}
	room.Private = private
	return nil
}

func (g *memoryGateway) SetRoomDisplayName(roomID uuid.UUID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return errors.New("room not found")
	}
	room.DisplayName = name
	return nil
}

func (g *memoryGateway) DeleteRoom(roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.rooms, roomID)
	delete(g.members, roomID)
	delete(g.joinRequests, roomID)
	delete(g.messages, roomID)
	for _, byRoom := range g.notifications {
		delete(byRoom, roomID)
	}
	return nil
}

func (g *memoryGateway) GetOrCreateJoinRequest(userID, roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.joinRequests[roomID] == nil {
		g.joinRequests[roomID] = make(map[uuid.UUID]time.Time)
	}
	if _, ok := g.joinRequests[roomID][userID]; !ok {
		g.joinRequests[roomID][userID] = time.Now()
	}
	return nil
}

func (g *memoryGateway) DeleteJoinRequest(userID, roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.joinRequests[roomID], userID)
	return nil
}

func (g *memoryGateway) DeleteAllJoinRequests(roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.joinRequests, roomID)
	return nil
}

func (g *memoryGateway) GetJoinRequests(roomID uuid.UUID) ([]repo.JoinRequestEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var entries []repo.JoinRequestEntry
	for userID, timestamp := range g.joinRequests[roomID] {
		user, ok := g.users[userID]
		if !ok {
			continue
		}
		entries = append(entries, repo.JoinRequestEntry{
			UserID:      userID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Timestamp:   timestamp,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

func (g *memoryGateway) CountJoinRequests(roomID uuid.UUID) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return int64(len(g.joinRequests[roomID])), nil
}

func (g *memoryGateway) GetUserJoinRequestRoomIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var roomIDs []uuid.UUID
	for roomID, requests := range g.joinRequests {
		if _, ok := requests[userID]; ok {
			roomIDs = append(roomIDs, roomID)
		}
	}
	return roomIDs, nil
}

func (g *memoryGateway) GetOrCreateNotification(userID, roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.notifications[userID] == nil {
		g.notifications[userID] = make(map[uuid.UUID]*memoryNotification)
	}
	if _, ok := g.notifications[userID][roomID]; !ok {
		g.notifications[userID][roomID] = &memoryNotification{timestamp: time.Now()}
	}
	return nil
}

func (g *memoryGateway) MarkNotificationRead(userID, roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	notification, ok := g.notifications[userID][roomID]
	if ok && !notification.read {
		notification.read = true
	}
	return nil
}

func (g *memoryGateway) DeleteNotification(userID, roomID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.notifications[userID], roomID)
	return nil
}

func (g *memoryGateway) GetUserNotifications(userID uuid.UUID) ([]repo.NotificationEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var entries []repo.NotificationEntry
	for roomID, notification := range g.notifications[userID] {
		entry := repo.NotificationEntry{
			RoomID:    roomID,
			Read:      notification.read,
			Timestamp: notification.timestamp,
		}
		if room, ok := g.rooms[roomID]; ok {
			entry.RoomDisplayName = room.DisplayName
		}
		if notification.creatorID != nil {
			if creator, ok := g.users[*notification.creatorID]; ok {
				entry.MessageCreator = creator.DisplayName
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (g *memoryGateway) AllNotifiedUsernames() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var usernames []string
	for userID, byRoom := range g.notifications {
		if len(byRoom) == 0 {
			continue
		}
		if user, ok := g.users[userID]; ok {
			usernames = append(usernames, user.Username)
		}
	}
	return usernames, nil
}

func (g *memoryGateway) GetOrCreateMessage(roomID, creatorID uuid.UUID) (*models.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.messageLocked(roomID, creatorID), nil
}

func (g *memoryGateway) messageLocked(roomID, creatorID uuid.UUID) *models.Message {
	if g.messages[roomID] == nil {
		g.messages[roomID] = make(map[uuid.UUID]*models.Message)
	}
	message, ok := g.messages[roomID][creatorID]
	if !ok {
		message = &models.Message{ID: uuid.New(), RoomID: roomID, CreatorID: creatorID}
		g.messages[roomID][creatorID] = message
	}
	copied := *message
	return &copied
}

func (g *memoryGateway) AttachMessageToNotifications(roomID, creatorID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.messageLocked(roomID, creatorID)

	creator := creatorID
	for _, memberID := range g.members[roomID] {
		if g.notifications[memberID] == nil {
			g.notifications[memberID] = make(map[uuid.UUID]*memoryNotification)
		}
		notification, ok := g.notifications[memberID][roomID]
		if !ok {
			notification = &memoryNotification{}
			g.notifications[memberID][roomID] = notification
		}
		notification.creatorID = &creator
		notification.read = memberID == creatorID
		notification.timestamp = time.Now()
	}
	return nil
}

// Доступ к состоянию для проверок в тестах

func (g *memoryGateway) isMember(roomID, userID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, memberID := range g.members[roomID] {
		if memberID == userID {
			return true
		}
	}
	return false
}

func (g *memoryGateway) hasJoinRequest(roomID, userID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.joinRequests[roomID][userID]
	return ok
}

func (g *memoryGateway) notificationRead(userID, roomID uuid.UUID) (bool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	notification, ok := g.notifications[userID][roomID]
	if !ok {
		return false, false
	}
	return notification.read, true
}

func (g *memoryGateway) roomExists(roomID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.rooms[roomID]
	return ok
}
