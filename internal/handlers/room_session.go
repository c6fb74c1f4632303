package handlers

import (
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/storage"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
)

// Подсказка клиенту, когда перезапросить ссылку: чуть меньше срока
// ее жизни, в миллисекундах
const refreshUploadDestinationIn = 604790000

// RoomSession сессия одного соединения в комнате. Владеет процессом
// заявок на вступление и рассылками в группу комнаты.
type RoomSession struct {
	gateway repo.Gateway
	hub     *ws.Hub
	signer  storage.Signer
	client  *ws.Client
	roomID  uuid.UUID
}

func NewRoomSession(gateway repo.Gateway, hub *ws.Hub, signer storage.Signer, client *ws.Client, roomID uuid.UUID) *RoomSession {
	return &RoomSession{
		gateway: gateway,
		hub:     hub,
		signer:  signer,
		client:  client,
		roomID:  roomID,
	}
}

// Start подписывает соединение на группу комнаты и запускает инициализацию
func (s *RoomSession) Start() {
	s.hub.Subscribe(s.client, s.roomID.String())
	go s.initialize()
}

func (s *RoomSession) initialize() {
	allowed, err := userAllowed(s.gateway, s.client.UserID, s.roomID)
	if err != nil {
		log.Printf("room %s: gate check failed: %v", s.roomID, err)
		return
	}

	if !allowed {
		// Соединение остается открытым в ожидании одобрения
		sendEvent(s.client, &dto.Event{
			Type:    dto.EventAllowed,
			Allowed: dto.Bool(false),
			Room:    s.roomID.String(),
		})
		if err := s.gateway.GetOrCreateJoinRequest(s.client.UserID, s.roomID); err != nil {
			log.Printf("room %s: join request failed: %v", s.roomID, err)
			return
		}
		s.hub.Publish(s.roomID.String(), &dto.Event{Type: dto.EventRefreshJoinRequests})
		return
	}

	sendEvent(s.client, &dto.Event{
		Type:    dto.EventAllowed,
		Allowed: dto.Bool(true),
		Room:    s.roomID.String(),
	})

	if _, err := s.gateway.GetOrCreateRoom(s.roomID); err != nil {
		log.Printf("room %s: create failed: %v", s.roomID, err)
		return
	}

	added, err := s.gateway.AddRoomMember(s.roomID, s.client.UserID)
	if err != nil {
		log.Printf("room %s: add member failed: %v", s.roomID, err)
		return
	}

	members, err := s.gateway.GetRoomMembers(s.roomID)
	if err != nil {
		log.Printf("room %s: fetch members failed: %v", s.roomID, err)
		return
	}

	if added {
		for _, member := range members {
			if err := s.gateway.GetOrCreateNotification(member.ID, s.roomID); err != nil {
				log.Printf("room %s: notification for %s failed: %v", s.roomID, member.Username, err)
			}
		}
		s.hub.Publish(s.roomID.String(), &dto.Event{Type: dto.EventRefreshMembers})
	} else {
		sendEvent(s.client, &dto.Event{Type: dto.EventMembers, Members: displayNames(members)})
	}

	if err := s.gateway.MarkNotificationRead(s.client.UserID, s.roomID); err != nil {
		log.Printf("room %s: mark read failed: %v", s.roomID, err)
	}
	s.hub.Publish(s.client.Username, &dto.Event{Type: dto.EventRefreshNotifs})

	s.fetchDisplayName()
	s.fetchPrivacy()
	s.fetchJoinRequests()
	s.fetchUploadURL()
}

// HandleCommand раскидывает команды по горутинам: прием следующей
// команды не блокируется, порядок выполнения между командами не
// гарантируется. Доступ перепроверяется в каждой горутине заново.
func (s *RoomSession) HandleCommand(_ *ws.Client, cmd *dto.Command) {
	switch cmd.Command {
	case dto.CommandDisconnect:
		s.hub.Unsubscribe(s.client, s.roomID.String())
		return
	case dto.CommandFetchAllowedStatus:
		go s.fetchAllowedStatus()
		return
	case dto.CommandFetchDisplayName:
		go s.fetchDisplayName()
		return
	}

	go func(cmd dto.Command) {
		allowed, err := userAllowed(s.gateway, s.client.UserID, s.roomID)
		if err != nil {
			log.Printf("room %s: gate check failed: %v", s.roomID, err)
			return
		}
		if !allowed {
			return
		}

		switch cmd.Command {
		case dto.CommandUpdatePrivacy:
			s.updatePrivacy(cmd.Privacy)
		case dto.CommandFetchPrivacy:
			s.fetchPrivacy()
		case dto.CommandFetchJoinRequests:
			s.fetchJoinRequests()
		case dto.CommandFetchMembers:
			s.fetchMembers()
		case dto.CommandRejectUser:
			s.rejectUser(cmd.Username)
		case dto.CommandApproveUser:
			s.approveUser(cmd.Username)
		case dto.CommandApproveAllUsers:
			s.approveAllUsers()
		case dto.CommandUpdateDisplayName:
			s.updateDisplayName(cmd.Name)
		case dto.CommandReadRoomNotif:
			s.readRoomNotification()
		case dto.CommandFetchUploadURL:
			s.fetchUploadURL()
		case dto.CommandSendMessage:
			s.sendMessage()
		}
	}(*cmd)
}

func (s *RoomSession) updatePrivacy(private bool) {
	if err := s.gateway.SetRoomPrivacy(s.roomID, private); err != nil {
		log.Printf("room %s: update privacy failed: %v", s.roomID, err)
		return
	}
	s.hub.Publish(s.roomID.String(), &dto.Event{Type: dto.EventRefreshPrivacy})
}

func (s *RoomSession) fetchPrivacy() {
	room, err := s.gateway.GetOrCreateRoom(s.roomID)
	if err != nil {
		log.Printf("room %s: fetch privacy failed: %v", s.roomID, err)
		return
	}
	sendEvent(s.client, &dto.Event{Type: dto.EventPrivacy, Privacy: dto.Bool(room.Private)})
}

func (s *RoomSession) fetchJoinRequests() {
	entries, err := s.gateway.GetJoinRequests(s.roomID)
	if err != nil {
		log.Printf("room %s: fetch join requests failed: %v", s.roomID, err)
		return
	}

	requests := make([]dto.JoinRequest, len(entries))
	for i, entry := range entries {
		requests[i] = dto.JoinRequest{
			User:        entry.UserID.String(),
			Username:    entry.Username,
			DisplayName: entry.DisplayName,
		}
	}
	sendEvent(s.client, &dto.Event{Type: dto.EventJoinRequests, JoinRequests: requests})
}

func (s *RoomSession) fetchMembers() {
	members, err := s.gateway.GetRoomMembers(s.roomID)
	if err != nil {
		log.Printf("room %s: fetch members failed: %v", s.roomID, err)
		return
	}
	sendEvent(s.client, &dto.Event{Type: dto.EventMembers, Members: displayNames(members)})

	room, exists, err := s.gateway.GetRoom(s.roomID)
	if err != nil || !exists {
		return
	}

	isMember := false
	for _, member := range members {
		if member.ID == s.client.UserID {
			isMember = true
			break
		}
	}

	// Вышедший из публичной комнаты узнает об этом при следующем запросе
	if !isMember && !room.Private {
		sendEvent(s.client, &dto.Event{Type: dto.EventLeftRoom, Room: s.roomID.String()})
	}
}

func (s *RoomSession) rejectUser(username string) {
	user, err := s.gateway.GetUserByUsername(username)
	if err != nil {
		log.Printf("room %s: reject %s failed: %v", s.roomID, username, err)
		return
	}
	if err := s.gateway.DeleteJoinRequest(user.ID, s.roomID); err != nil {
		log.Printf("room %s: reject %s failed: %v", s.roomID, username, err)
		return
	}
	s.hub.Publish(s.roomID.String(), &dto.Event{Type: dto.EventRefreshJoinRequests})
}

func (s *RoomSession) approveUser(username string) {
	user, err := s.gateway.GetUserByUsername(username)
	if err != nil {
		log.Printf("room %s: approve %s failed: %v", s.roomID, username, err)
		return
	}
	if err := s.admitUser(user.ID); err != nil {
		log.Printf("room %s: approve %s failed: %v", s.roomID, username, err)
		return
	}

	s.hub.Publish(username, &dto.Event{Type: dto.EventRefreshNotifs})
	s.hub.Publish(s.roomID.String(), &dto.Event{
		Type:     dto.EventRefreshDisplayName,
		Username: username,
	})
	s.publishRoomRefresh()
}

func (s *RoomSession) approveAllUsers() {
	entries, err := s.gateway.GetJoinRequests(s.roomID)
	if err != nil {
		log.Printf("room %s: approve all failed: %v", s.roomID, err)
		return
	}

	for _, entry := range entries {
		if err := s.admitUser(entry.UserID); err != nil {
			log.Printf("room %s: approve %s failed: %v", s.roomID, entry.Username, err)
		}
	}
	if err := s.gateway.DeleteAllJoinRequests(s.roomID); err != nil {
		log.Printf("room %s: approve all failed: %v", s.roomID, err)
		return
	}

	for _, entry := range entries {
		s.hub.Publish(entry.Username, &dto.Event{Type: dto.EventRefreshNotifs})
		s.hub.Publish(s.roomID.String(), &dto.Event{
			Type:     dto.EventRefreshDisplayName,
			Username: entry.Username,
		})
	}
	s.publishRoomRefresh()
}

// admitUser переводит заявителя в участники
func (s *RoomSession) admitUser(userID uuid.UUID) error {
	if _, err := s.gateway.AddRoomMember(s.roomID, userID); err != nil {
		return err
	}
	if err := s.gateway.GetOrCreateNotification(userID, s.roomID); err != nil {
		return err
	}
	return s.gateway.DeleteJoinRequest(userID, s.roomID)
}

// publishRoomRefresh рассылает комнате полный набор refresh-событий
// после изменения состава участников
func (s *RoomSession) publishRoomRefresh() {
	room := s.roomID.String()
	s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshJoinRequests})
	s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshMembers})
	s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshAllowed})
	s.hub.Publish(room, &dto.Event{Type: dto.EventRefreshPrivacy})
	s.hub.Publish(room, &dto.Event{Type: dto.EventRoomNotified})
}

func (s *RoomSession) updateDisplayName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		// Пустое имя молча отклоняется: клиенту уходит текущее
		s.fetchDisplayName()
		return
	}

	if err := s.gateway.SetRoomDisplayName(s.roomID, name); err != nil {
		log.Printf("room %s: update display name failed: %v", s.roomID, err)
		return
	}

	members, err := s.gateway.GetRoomMembers(s.roomID)
	if err != nil {
		log.Printf("room %s: update display name failed: %v", s.roomID, err)
		return
	}
	for _, member := range members {
		s.hub.Publish(member.Username, &dto.Event{Type: dto.EventRefreshNotifs})
	}
	s.hub.Publish(s.roomID.String(), &dto.Event{
		Type:        dto.EventDisplayName,
		DisplayName: name,
	})
}

func (s *RoomSession) fetchDisplayName() {
	room, err := s.gateway.GetOrCreateRoom(s.roomID)
	if err != nil {
		log.Printf("room %s: fetch display name failed: %v", s.roomID, err)
		return
	}
	sendEvent(s.client, &dto.Event{
		Type:        dto.EventDisplayName,
		DisplayName: room.DisplayName,
	})
}

func (s *RoomSession) readRoomNotification() {
	if err := s.gateway.MarkNotificationRead(s.client.UserID, s.roomID); err != nil {
		log.Printf("room %s: mark read failed: %v", s.roomID, err)
		return
	}
	s.hub.Publish(s.client.Username, &dto.Event{Type: dto.EventRefreshNotifs})
}

func (s *RoomSession) fetchUploadURL() {
	message, err := s.gateway.GetOrCreateMessage(s.roomID, s.client.UserID)
	if err != nil {
		log.Printf("room %s: fetch upload url failed: %v", s.roomID, err)
		return
	}

	url, err := s.signer.SignUpload(message.ID.String())
	if err != nil {
		// Ошибка подписи фатальна для команды, сессия продолжает жить
		log.Printf("room %s: upload url signing failed: %v", s.roomID, err)
		return
	}

	sendEvent(s.client, &dto.Event{
		Type:                       dto.EventUploadURL,
		UploadURL:                  url,
		RefreshUploadDestinationIn: refreshUploadDestinationIn,
	})
}

func (s *RoomSession) sendMessage() {
	if err := s.gateway.AttachMessageToNotifications(s.roomID, s.client.UserID); err != nil {
		log.Printf("room %s: send message failed: %v", s.roomID, err)
		return
	}

	members, err := s.gateway.GetRoomMembers(s.roomID)
	if err != nil {
		log.Printf("room %s: send message failed: %v", s.roomID, err)
		return
	}
	for _, member := range members {
		s.hub.Publish(member.Username, &dto.Event{Type: dto.EventRefreshNotifs})
	}
}

func (s *RoomSession) fetchAllowedStatus() {
	allowed, err := userAllowed(s.gateway, s.client.UserID, s.roomID)
	if err != nil {
		log.Printf("room %s: gate check failed: %v", s.roomID, err)
		return
	}

	sendEvent(s.client, &dto.Event{
		Type:    dto.EventAllowed,
		Allowed: dto.Bool(allowed),
		Room:    s.roomID.String(),
	})

	if !allowed {
		if err := s.gateway.GetOrCreateJoinRequest(s.client.UserID, s.roomID); err != nil {
			log.Printf("room %s: join request failed: %v", s.roomID, err)
			return
		}
		s.hub.Publish(s.roomID.String(), &dto.Event{Type: dto.EventRefreshJoinRequests})
	}
}
