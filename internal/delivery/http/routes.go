package http

import (
	"net/http"

	wsDelivery "github.com/suraj946/goss-up-server/internal/delivery/websocket"

	"github.com/go-chi/chi/v5"
)

func MapHttpRoutes(
	r *chi.Mux,
	chatHandler *ChatHandler,
	friendHandler *FriendHandler,
	userHandler *UserHandler,
	authHandler *AuthHandler,
	websocketHandler *wsDelivery.WebsocketHandler,
	authMiddleware *AuthMiddleware,
) {
	r.Handle("/ws", http.HandlerFunc(websocketHandler.HandleWebSocket))

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", http.HandlerFunc(authHandler.Register))
		r.Post("/login", http.HandlerFunc(authHandler.Login))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/friend", func(r chi.Router) {
			r.Get("/", http.HandlerFunc(friendHandler.ListFriends))
			r.Post("/request", http.HandlerFunc(friendHandler.SendRequest))
			r.Put("/request/{requestId}", http.HandlerFunc(friendHandler.Respond))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", http.HandlerFunc(chatHandler.ListChats))
			r.Post("/one-to-one", http.HandlerFunc(chatHandler.CreateOneToOne))
			r.Post("/group", http.HandlerFunc(chatHandler.CreateGroup))
			r.Get("/group/search", http.HandlerFunc(chatHandler.SearchGroups))
			r.Put("/group/{chatId}/name", http.HandlerFunc(chatHandler.UpdateGroupName))
			r.Put("/group/{chatId}/icon", http.HandlerFunc(chatHandler.UpdateGroupIcon))
			r.Post("/group/{chatId}/participant", http.HandlerFunc(chatHandler.AddParticipant))
			r.Delete("/group/{chatId}/participant/{userId}", http.HandlerFunc(chatHandler.RemoveParticipant))
			r.Put("/group/{chatId}/admin/{userId}", http.HandlerFunc(chatHandler.ToggleAdmin))
			r.Delete("/group/{chatId}/leave", http.HandlerFunc(chatHandler.LeaveGroup))
			r.Get("/{chatId}/messages", http.HandlerFunc(chatHandler.GetMessages))
			r.Post("/{chatId}/messages", http.HandlerFunc(chatHandler.SendMessage))
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/{id}", http.HandlerFunc(userHandler.GetUser))
			r.Put("/profile", http.HandlerFunc(userHandler.UpdateProfile))
		})
	})
}
