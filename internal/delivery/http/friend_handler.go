package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/suraj946/goss-up-server/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type FriendHandler struct {
	friendUc usecase.FriendUsecase
}

func NewFriendHandler(friendUc usecase.FriendUsecase) *FriendHandler {
	return &FriendHandler{
		friendUc: friendUc,
	}
}

// POST /friend/request
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserId string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "userId is required"})
		return
	}

	friendship, err := h.friendUc.SendRequest(r.Context(), actorId(r), req.UserId)
	if err != nil {
		log.Printf("Send friend request error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: friendship})
}

// PUT /friend/request/{requestId}
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	friendship, err := h.friendUc.Respond(r.Context(), chi.URLParam(r, "requestId"), actorId(r), req.Accept)
	if err != nil {
		log.Printf("Respond friend request error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: friendship})
}

// GET /friend
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friendUc.ListFriends(r.Context(), actorId(r))
	if err != nil {
		log.Printf("List friends error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: friends})
}
