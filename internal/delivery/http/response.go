package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/suraj946/goss-up-server/internal/usecase"
)

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), Response{Message: messageForError(err)})
}

// statusForError maps usecase sentinels onto the HTTP error taxonomy.
// Unknown errors are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrMissingFields),
		errors.Is(err, usecase.ErrGroupNameRequired),
		errors.Is(err, usecase.ErrNotEnoughParticipants),
		errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, usecase.ErrInvalidMessageType),
		errors.Is(err, usecase.ErrSelfChat),
		errors.Is(err, usecase.ErrSelfFriendRequest),
		errors.Is(err, usecase.ErrCannotRemoveSelf),
		errors.Is(err, usecase.ErrTargetNotParticipant),
		errors.Is(err, usecase.ErrRequestNotPending):
		return http.StatusBadRequest

	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, usecase.ErrNotFriends),
		errors.Is(err, usecase.ErrNotAdmin),
		errors.Is(err, usecase.ErrNotParticipant),
		errors.Is(err, usecase.ErrAlreadyParticipant),
		errors.Is(err, usecase.ErrNotRequestReceiver),
		errors.Is(err, usecase.ErrUserBlocked):
		return http.StatusForbidden

	case errors.Is(err, usecase.ErrChatNotFound),
		errors.Is(err, usecase.ErrNotGroupChat),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrRequestNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrEmailAlreadyTaken),
		errors.Is(err, usecase.ErrRequestPending),
		errors.Is(err, usecase.ErrAlreadyFriends):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	if statusForError(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
