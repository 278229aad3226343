package entity

import "time"

const (
	ChatTypeOneToOne = "one-to-one"
	ChatTypeGroup    = "group"
)

type Chat struct {
	Id            string    `bson:"_id" json:"id"`
	ChatType      string    `bson:"chatType" json:"chatType"`
	Participants  []string  `bson:"participants" json:"participants"`
	Admins        []string  `bson:"admins,omitempty" json:"admins,omitempty"`
	GroupName     string    `bson:"groupName,omitempty" json:"groupName,omitempty"`
	GroupIcon     string    `bson:"groupIcon,omitempty" json:"groupIcon,omitempty"`
	GroupIconId   string    `bson:"groupIconId,omitempty" json:"-"`
	PairKey       string    `bson:"pairKey,omitempty" json:"-"`
	LastMessageId string    `bson:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	Version       int64     `bson:"version" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ChatPairKey is the unique lookup key of a one-to-one chat, built from the
// canonically ordered participant ids.
func ChatPairKey(a, b string) string {
	one, two := CanonicalPair(a, b)
	return one + ":" + two
}

func (c Chat) HasParticipant(userId string) bool {
	for _, id := range c.Participants {
		if id == userId {
			return true
		}
	}
	return false
}

func (c Chat) HasAdmin(userId string) bool {
	for _, id := range c.Admins {
		if id == userId {
			return true
		}
	}
	return false
}

type ChatDetailResponse struct {
	Chat         Chat          `json:"chat"`
	Participants []UserSummary `json:"participants"`
}

// MessageSummary is the last-message projection shown in conversation lists.
type MessageSummary struct {
	MessageType string `json:"messageType"`
	Content     string `json:"content"`
}

type ChatPage struct {
	Chats        []Chat                    `json:"chats"`
	LastMessages map[string]MessageSummary `json:"lastMessages,omitempty"`
	Participants []UserSummary             `json:"participants,omitempty"`
	Page         int                       `json:"page"`
	TotalCount   int64                     `json:"totalCount"`
	HasMore      bool                      `json:"hasMore"`
}
