package ws

type IHub interface {
	RegisterClient(client *UserClient)
	UnregisterClient(client *UserClient)
	SendToUser(userId string, message []byte)
	Broadcast(message []byte)
	ConnectionCount(userId string) int
	OnlineUsers() []string
	SetOnUserOnline(callback func(userId string))
	SetOnUserOffline(callback func(userId string))
}
