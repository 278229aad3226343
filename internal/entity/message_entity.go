package entity

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

type Message struct {
	Id          string    `bson:"_id" json:"id"`
	ChatId      string    `bson:"chatId" json:"chatId"`
	SenderId    string    `bson:"senderId" json:"senderId"`
	MessageType string    `bson:"messageType" json:"messageType"`
	Content     string    `bson:"content" json:"content"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

func (m Message) Summary() MessageSummary {
	return MessageSummary{
		MessageType: m.MessageType,
		Content:     m.Content,
	}
}

type MessagePage struct {
	Messages   []Message `json:"messages"`
	Page       int       `json:"page"`
	TotalCount int64     `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
}
