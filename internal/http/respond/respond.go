package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Message is the body shape for every non-collection response.
type Message struct {
	Msg string `json:"msg"`
	ID  *int64 `json:"id,omitempty"`
}

// JSON writes payload as the response body with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("respond: encode payload failed", zap.Error(err))
	}
}

// Msg writes a {"msg": ...} body.
func Msg(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Msg: message})
}

// Created writes a {"msg": ..., "id": ...} body with 201.
func Created(w http.ResponseWriter, message string, id int64) {
	JSON(w, http.StatusCreated, Message{Msg: message, ID: &id})
}
