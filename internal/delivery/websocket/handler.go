package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/suraj946/goss-up-server/infrastructure/ws"
	"github.com/suraj946/goss-up-server/internal/usecase"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebsocketHandler struct {
	hub       ws.IHub
	authUc    usecase.AuthUsecase
	messageUc usecase.MessageUsecase
}

func NewWebsocketHandler(hub ws.IHub, authUc usecase.AuthUsecase, messageUc usecase.MessageUsecase) *WebsocketHandler {
	return &WebsocketHandler{
		hub:       hub,
		authUc:    authUc,
		messageUc: messageUc,
	}
}

// HandleWebSocket authenticates the connection by access token and attaches
// it to the hub as one of the user's live connections.
func (h *WebsocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authUc.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade error: %v", err)
		return
	}

	client := ws.NewClient(claims.UserId, h.hub, conn)
	h.hub.RegisterClient(client)

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.handleIncoming(client, data)
	})
}

func (h *WebsocketHandler) handleIncoming(client *ws.UserClient, data []byte) {
	var incoming IncomingMessage
	if err := json.Unmarshal(data, &incoming); err != nil {
		log.Printf("Unknown message from %s: %v", client.UserId, err)
		h.sendError(client, "malformed message")
		return
	}

	_, err := h.messageUc.SendMessage(context.Background(), client.UserId, incoming.ChatId, incoming.MessageType, incoming.Content)
	if err != nil {
		log.Printf("Send message error for %s: %v", client.UserId, err)
		h.sendError(client, err.Error())
	}
}

// sendError reports a failure back on the connection that caused it; the
// user's other devices never see it.
func (h *WebsocketHandler) sendError(client *ws.UserClient, message string) {
	data, err := json.Marshal(EventEnvelope{
		Event:   "error",
		Payload: ErrorPayload{Message: message},
	})
	if err != nil {
		return
	}
	client.Send(data)
}
