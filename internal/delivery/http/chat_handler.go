package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/suraj946/goss-up-server/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type ChatHandler struct {
	chatUc    usecase.ChatUsecase
	messageUc usecase.MessageUsecase
}

func NewChatHandler(chatUc usecase.ChatUsecase, messageUc usecase.MessageUsecase) *ChatHandler {
	return &ChatHandler{
		chatUc:    chatUc,
		messageUc: messageUc,
	}
}

// POST /chat/one-to-one
func (h *ChatHandler) CreateOneToOne(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserId string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "userId is required"})
		return
	}

	detail, created, err := h.chatUc.CreateOneToOne(r.Context(), actorId(r), req.UserId)
	if err != nil {
		log.Printf("Create one-to-one chat error: %v", err)
		writeError(w, err)
		return
	}

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	writeJSON(w, statusCode, Response{Message: "success", Data: detail})
}

// POST /chat/group
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupName      string   `json:"groupName"`
		ParticipantIds []string `json:"participantIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	chat, err := h.chatUc.CreateGroup(r.Context(), actorId(r), req.ParticipantIds, req.GroupName)
	if err != nil {
		log.Printf("Create group error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: chat})
}

// PUT /chat/group/{chatId}/name
func (h *ChatHandler) UpdateGroupName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupName string `json:"groupName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	chat, err := h.chatUc.UpdateGroupName(r.Context(), chi.URLParam(r, "chatId"), req.GroupName, actorId(r))
	if err != nil {
		log.Printf("Update group name error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chat})
}

// PUT /chat/group/{chatId}/icon
func (h *ChatHandler) UpdateGroupIcon(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("icon")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "icon file is required"})
		return
	}
	defer file.Close()

	chat, err := h.chatUc.UpdateGroupIcon(r.Context(), chi.URLParam(r, "chatId"), actorId(r), file)
	if err != nil {
		log.Printf("Update group icon error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chat})
}

// POST /chat/group/{chatId}/participant
func (h *ChatHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserId string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "userId is required"})
		return
	}

	chat, err := h.chatUc.AddParticipant(r.Context(), chi.URLParam(r, "chatId"), req.UserId, actorId(r))
	if err != nil {
		log.Printf("Add participant error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chat})
}

// DELETE /chat/group/{chatId}/participant/{userId}
func (h *ChatHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chatUc.RemoveParticipant(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "userId"), actorId(r))
	if err != nil {
		log.Printf("Remove participant error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chat})
}

// PUT /chat/group/{chatId}/admin/{userId}
func (h *ChatHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	chat, isAdmin, err := h.chatUc.ToggleAdmin(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "userId"), actorId(r))
	if err != nil {
		log.Printf("Toggle admin error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "success",
		Data: map[string]any{
			"chat":    chat,
			"isAdmin": isAdmin,
		},
	})
}

// DELETE /chat/group/{chatId}/leave
func (h *ChatHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.chatUc.LeaveGroup(r.Context(), chi.URLParam(r, "chatId"), actorId(r)); err != nil {
		log.Printf("Leave group error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success"})
}

// GET /chat/group/search?query=&page=
func (h *ChatHandler) SearchGroups(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	result, err := h.chatUc.SearchGroups(r.Context(), actorId(r), r.URL.Query().Get("query"), page)
	if err != nil {
		log.Printf("Search groups error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: result})
}

// GET /chat?page=
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	result, err := h.chatUc.ListChats(r.Context(), actorId(r), pageParam(r))
	if err != nil {
		log.Printf("List chats error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: result})
}

// GET /chat/{chatId}/messages?page=
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	result, err := h.messageUc.GetMessages(r.Context(), chi.URLParam(r, "chatId"), actorId(r), pageParam(r))
	if err != nil {
		log.Printf("Get messages error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: result})
}

// POST /chat/{chatId}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageType string `json:"messageType"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	message, err := h.messageUc.SendMessage(r.Context(), actorId(r), chi.URLParam(r, "chatId"), req.MessageType, req.Content)
	if err != nil {
		log.Printf("Send message error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: message})
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}
