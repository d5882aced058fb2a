package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Saksham-w/askme/internal/auth"
	"github.com/Saksham-w/askme/internal/logger"
	"github.com/Saksham-w/askme/internal/message"
	"github.com/Saksham-w/askme/internal/models"
	"github.com/Saksham-w/askme/internal/suggest"
	"github.com/Saksham-w/askme/internal/util"
)

// Handler holds the service collaborators behind the HTTP endpoints.
type Handler struct {
	auth     *auth.Service
	messages *message.Service
	suggest  *suggest.Client
	logger   *logger.Logger
}

// NewHandler wires the API handler.
func NewHandler(authSvc *auth.Service, messages *message.Service, suggestClient *suggest.Client, log *logger.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		messages: messages,
		suggest:  suggestClient,
		logger:   log,
	}
}

// SignUp handles POST /api/sign-up.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.auth.SignUp(r.Context(), req.Username, req.Email, req.Password)
	var validationErr *util.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid sign-up details", Errors: validationErr.Errors})
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username is already taken.")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "User with this email already exists.")
	case errors.Is(err, auth.ErrEmailDelivery):
		writeError(w, http.StatusInternalServerError, "Failed to send verification code to email.")
	case err != nil:
		h.logger.Error("sign-up failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	default:
		writeSuccess(w, http.StatusCreated, "Verification code sent to email.")
	}
}

// CheckUsername handles GET /api/check-username-unique.
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	err := h.auth.CheckUsername(r.Context(), username)
	var validationErr *util.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid username", Errors: validationErr.Errors})
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username is already taken")
	case err != nil:
		h.logger.Error("username check failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error checking username")
	default:
		writeSuccess(w, http.StatusOK, "Username is unique")
	}
}

// VerifyCode handles POST /api/verify-code.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	// The username may arrive URL-encoded from the verification link.
	if decoded, err := url.QueryUnescape(req.Username); err == nil {
		req.Username = decoded
	}

	err := h.auth.VerifyCode(r.Context(), req.Username, req.Code)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrCodeInvalid):
		writeError(w, http.StatusBadRequest, "Verification code is invalid or has expired")
	case err != nil:
		h.logger.Error("verification failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error verifying user")
	default:
		writeSuccess(w, http.StatusOK, "User verified successfully")
	}
}

// SignIn handles POST /api/sign-in.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	tokenString, err := h.auth.SignIn(r.Context(), req.Identifier, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "No user found with the given email or username.")
	case errors.Is(err, auth.ErrNotVerified):
		writeError(w, http.StatusForbidden, "Please verify your account first.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect password.")
	case err != nil:
		h.logger.Error("sign-in failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	default:
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Signed in successfully", Token: tokenString})
	}
}

// SendMessage handles POST /api/send-message.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.messages.Send(r.Context(), req.Username, req.Content)
	var validationErr *util.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid message content", Errors: validationErr.Errors})
	case errors.Is(err, message.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, message.ErrNotAccepting):
		writeError(w, http.StatusForbidden, "User is not accepting messages")
	case err != nil:
		h.logger.Error("send message failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to send message")
	default:
		writeSuccess(w, http.StatusOK, "Message sent successfully")
	}
}

// GetMessages handles GET /api/messages.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	msgs, err := h.messages.List(r.Context(), identity.UserID)
	switch {
	case errors.Is(err, message.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.logger.Error("list messages failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to retrieve messages")
	default:
		if msgs == nil {
			msgs = []models.Message{}
		}
		writeJSON(w, http.StatusOK, struct {
			Success  bool             `json:"success"`
			Message  string           `json:"message"`
			Messages []models.Message `json:"messages"`
		}{true, "Messages retrieved successfully", msgs})
	}
}

// DeleteMessage handles DELETE /api/messages/{messageID}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	messageID, err := primitive.ObjectIDFromHex(mux.Vars(r)["messageID"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Message not found or could not be deleted")
		return
	}

	err = h.messages.Delete(r.Context(), identity.UserID, messageID)
	switch {
	case errors.Is(err, message.ErrMessageNotFound), errors.Is(err, message.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "Message not found or could not be deleted")
	case err != nil:
		h.logger.Error("delete message failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error deleting message")
	default:
		writeSuccess(w, http.StatusOK, "Message deleted successfully")
	}
}

// GetAcceptMessages handles GET /api/accept-messages.
func (h *Handler) GetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	accepting, err := h.messages.GetAccepting(r.Context(), identity.UserID)
	switch {
	case errors.Is(err, message.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.logger.Error("get accept flag failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to retrieve accept-messages status")
	default:
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Accept-messages status retrieved", IsAcceptingMessages: &accepting})
	}
}

// SetAcceptMessages handles POST /api/accept-messages.
func (h *Handler) SetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		AcceptMessages bool `json:"acceptMessages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.messages.SetAccepting(r.Context(), identity.UserID, req.AcceptMessages)
	switch {
	case errors.Is(err, message.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.logger.Error("set accept flag failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to update accept-messages status")
	default:
		writeJSON(w, http.StatusOK, response{Success: true, Message: "Accept-messages status updated", IsAcceptingMessages: &req.AcceptMessages})
	}
}

// SuggestMessages handles POST /api/suggest-messages. It never fails
// outward; upstream trouble falls back to the local question pool.
func (h *Handler) SuggestMessages(w http.ResponseWriter, r *http.Request) {
	questions := h.suggest.Suggest(r.Context())
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Questions generated successfully", Questions: questions})
}
