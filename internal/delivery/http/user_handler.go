package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/suraj946/goss-up-server/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userUc usecase.UserUsecase
}

func NewUserHandler(userUc usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		userUc: userUc,
	}
}

// GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("Get user error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: user})
}

// PUT /user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Bio        string `json:"bio"`
		ProfilePic string `json:"profilePic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	user, err := h.userUc.UpdateProfile(r.Context(), actorId(r), req.Name, req.Bio, req.ProfilePic)
	if err != nil {
		log.Printf("Update profile error: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: user})
}
