package dto

// Входящие команды
const (
	CommandDisconnect         = "disconnect"
	CommandUpdatePrivacy      = "update_privacy"
	CommandFetchPrivacy       = "fetch_privacy"
	CommandFetchJoinRequests  = "fetch_join_requests"
	CommandFetchMembers       = "fetch_members"
	CommandRejectUser         = "reject_user"
	CommandApproveUser        = "approve_user"
	CommandApproveAllUsers    = "approve_all_users"
	CommandUpdateDisplayName  = "update_display_name"
	CommandFetchDisplayName   = "fetch_display_name"
	CommandReadRoomNotif      = "read_room_notification"
	CommandFetchUploadURL     = "fetch_upload_url"
	CommandSendMessage        = "send_message"
	CommandFetchAllowedStatus = "fetch_allowed_status"
	CommandExitRoom           = "exit_room"
	CommandFetchNotifications = "fetch_notifications"
)

// Command входящее сообщение от клиента
type Command struct {
	Command  string `json:"command"`
	Privacy  bool   `json:"privacy,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	RoomID   string `json:"room_id,omitempty"`
}
