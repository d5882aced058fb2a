package api

import (
	"encoding/json"
	"net/http"
)

// response is the uniform body every endpoint answers with. Route-specific
// payloads ride alongside success and message.
type response struct {
	Success             bool     `json:"success"`
	Message             string   `json:"message"`
	Errors              []string `json:"errors,omitempty"`
	Token               string   `json:"token,omitempty"`
	Questions           []string `json:"questions,omitempty"`
	IsAcceptingMessages *bool    `json:"isAcceptingMessages,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
