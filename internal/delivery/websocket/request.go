package websocket

type IncomingMessage struct {
	ChatId      string `json:"chatId"`
	MessageType string `json:"messageType"`
	Content     string `json:"content"`
}
