package entity

// Realtime event names published to connected clients.
const (
	EventNewMessage         = "new-message"
	EventNewGroup           = "new-group"
	EventGroupRenamed       = "group-renamed"
	EventGroupIconUpdated   = "group-icon-updated"
	EventParticipantAdded   = "participant-added"
	EventParticipantRemoved = "participant-removed"
	EventAdminToggled       = "admin-toggled"
	EventFriendRequest      = "friend-request"
	EventFriendAccepted     = "friend-accepted"
)

type NewMessageEvent struct {
	Message Message     `json:"message"`
	Sender  UserSummary `json:"sender"`
}

type NewGroupEvent struct {
	Chat Chat `json:"chat"`
}

type GroupRenamedEvent struct {
	ChatId    string `json:"chatId"`
	GroupName string `json:"groupName"`
}

type GroupIconUpdatedEvent struct {
	ChatId    string `json:"chatId"`
	GroupIcon string `json:"groupIcon"`
}

type ParticipantEvent struct {
	ChatId string `json:"chatId"`
	UserId string `json:"userId"`
}

type AdminToggledEvent struct {
	ChatId  string `json:"chatId"`
	UserId  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

type FriendRequestEvent struct {
	RequestId string      `json:"requestId"`
	From      UserSummary `json:"from"`
}
