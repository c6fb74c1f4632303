package dto

// Типы исходящих событий
const (
	EventAllowed             = "allowed"
	EventMembers             = "members"
	EventRefreshMembers      = "refresh_members"
	EventJoinRequests        = "join_requests"
	EventRefreshJoinRequests = "refresh_join_requests"
	EventPrivacy             = "privacy"
	EventRefreshPrivacy      = "refresh_privacy"
	EventDisplayName         = "display_name"
	EventRefreshDisplayName  = "refresh_display_name"
	EventNotifications       = "notifications"
	EventRefreshNotifs       = "refresh_notifications"
	EventRefreshAllowed      = "refresh_allowed_status"
	EventRoomNotified        = "room_notified"
	EventLeftRoom            = "left_room"
	EventUploadURL           = "upload_url"
)

// Event исходящее событие. Заполняются только поля своего типа.
type Event struct {
	Type                       string         `json:"type"`
	Room                       string         `json:"room,omitempty"`
	Allowed                    *bool          `json:"allowed,omitempty"`
	Privacy                    *bool          `json:"privacy,omitempty"`
	DisplayName                string         `json:"display_name,omitempty"`
	Username                   string         `json:"username,omitempty"`
	Members                    []string       `json:"members,omitempty"`
	JoinRequests               []JoinRequest  `json:"join_requests,omitempty"`
	Notifications              []Notification `json:"notifications,omitempty"`
	UploadURL                  string         `json:"upload_url,omitempty"`
	RefreshUploadDestinationIn int64          `json:"refresh_upload_destination_in,omitempty"`
}

type JoinRequest struct {
	User        string `json:"user"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type Notification struct {
	Room            string `json:"room"`
	RoomDisplayName string `json:"room_display_name"`
	Read            bool   `json:"read"`
	Timestamp       string `json:"timestamp"`
	MessageCreator  string `json:"message_creator,omitempty"`
}

func Bool(v bool) *bool { return &v }
