package handlers

import (
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
)

// UserSession сессия персональной ленты пользователя. Группа
// именуется username; владелец подтвержден при открытии соединения.
type UserSession struct {
	gateway repo.Gateway
	hub     *ws.Hub
	client  *ws.Client
}

func NewUserSession(gateway repo.Gateway, hub *ws.Hub, client *ws.Client) *UserSession {
	return &UserSession{
		gateway: gateway,
		hub:     hub,
		client:  client,
	}
}

// Start подписывает соединение на персональную группу и шлет
// начальное состояние
func (s *UserSession) Start() {
	s.hub.Subscribe(s.client, s.client.Username)
	go s.initialize()
}

func (s *UserSession) initialize() {
	s.pushNotifications()
	s.fetchDisplayName()
}

// HandleCommand раскидывает команды по горутинам, как и в сессии комнаты
func (s *UserSession) HandleCommand(_ *ws.Client, cmd *dto.Command) {
	switch cmd.Command {
	case dto.CommandDisconnect:
		s.hub.Unsubscribe(s.client, s.client.Username)
	case dto.CommandExitRoom:
		go s.exitRoom(cmd.RoomID)
	case dto.CommandFetchNotifications:
		go s.pushNotifications()
	case dto.CommandUpdateDisplayName:
		go s.updateDisplayName(cmd.Name)
	case dto.CommandFetchDisplayName:
		go s.fetchDisplayName()
	}
}

// pushNotifications публикует полную ленту в персональную группу:
// ее получают все открытые соединения этого пользователя
func (s *UserSession) pushNotifications() {
	entries, err := s.gateway.GetUserNotifications(s.client.UserID)
	if err != nil {
		log.Printf("user %s: fetch notifications failed: %v", s.client.Username, err)
		return
	}
	s.hub.Publish(s.client.Username, &dto.Event{
		Type:          dto.EventNotifications,
		Notifications: buildNotifications(entries),
	})
}

func (s *UserSession) exitRoom(roomIDValue string) {
	roomID, err := uuid.Parse(roomIDValue)
	if err != nil {
		log.Printf("user %s: exit room: bad room id %q", s.client.Username, roomIDValue)
		return
	}

	if err := s.gateway.RemoveRoomMember(roomID, s.client.UserID); err != nil {
		log.Printf("user %s: exit room %s failed: %v", s.client.Username, roomID, err)
		return
	}
	if err := s.gateway.DeleteNotification(s.client.UserID, roomID); err != nil {
		log.Printf("user %s: exit room %s failed: %v", s.client.Username, roomID, err)
		return
	}

	members, err := s.gateway.GetRoomMembers(roomID)
	if err != nil {
		log.Printf("user %s: exit room %s failed: %v", s.client.Username, roomID, err)
		return
	}
	pending, err := s.gateway.CountJoinRequests(roomID)
	if err != nil {
		log.Printf("user %s: exit room %s failed: %v", s.client.Username, roomID, err)
		return
	}

	// Ушел последний участник и никто не ждет одобрения, комната не нужна
	if len(members) == 0 && pending == 0 {
		if err := s.gateway.DeleteRoom(roomID); err != nil {
			log.Printf("user %s: delete room %s failed: %v", s.client.Username, roomID, err)
		}
	}

	s.hub.Publish(roomID.String(), &dto.Event{Type: dto.EventRefreshMembers})
	s.hub.Publish(roomID.String(), &dto.Event{Type: dto.EventRefreshAllowed})
	s.pushNotifications()
}

func (s *UserSession) updateDisplayName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		// Пустое имя молча отклоняется: клиенту уходит текущее
		s.fetchDisplayName()
		return
	}

	if err := s.gateway.UpdateUserDisplayName(s.client.UserID, name); err != nil {
		log.Printf("user %s: update display name failed: %v", s.client.Username, err)
		return
	}

	memberRooms, err := s.gateway.GetUserRoomIDs(s.client.UserID)
	if err != nil {
		log.Printf("user %s: update display name failed: %v", s.client.Username, err)
		return
	}
	requestRooms, err := s.gateway.GetUserJoinRequestRoomIDs(s.client.UserID)
	if err != nil {
		log.Printf("user %s: update display name failed: %v", s.client.Username, err)
		return
	}

	rooms := make(map[string]bool)
	for _, roomID := range memberRooms {
		rooms[roomID.String()] = true
	}
	for _, roomID := range requestRooms {
		rooms[roomID.String()] = true
	}

	// Имя видно и в лентах уведомлений: обновляем всех их держателей
	usernames, err := s.gateway.AllNotifiedUsernames()
	if err != nil {
		log.Printf("user %s: update display name failed: %v", s.client.Username, err)
		return
	}

	for room := range rooms {
		s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshMembers})
		s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshJoinRequests})
	}
	for _, username := range usernames {
		s.hub.Publish(username, &dto.Event{Type: dto.EventRefreshNotifs})
	}
	s.hub.Publish(s.client.Username, &dto.Event{
		Type:        dto.EventDisplayName,
		DisplayName: name,
	})
}

func (s *UserSession) fetchDisplayName() {
	// Имя перечитывается из хранилища: его могли поменять в другой сессии
	user, err := s.gateway.GetUser(s.client.UserID)
	if err != nil {
		log.Printf("user %s: fetch display name failed: %v", s.client.Username, err)
		return
	}
	sendEvent(s.client, &dto.Event{
		Type:        dto.EventDisplayName,
		DisplayName: user.DisplayName,
	})
}
