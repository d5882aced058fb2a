package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Saksham-w/askme/internal/token"
)

// NewRouter builds the API route table. Routes under the authenticated
// subrouter require a valid bearer session token.
func NewRouter(h *Handler, tokens *token.Manager) *mux.Router {
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/sign-up", h.SignUp).Methods(http.MethodPost)
	apiRouter.HandleFunc("/check-username-unique", h.CheckUsername).Methods(http.MethodGet)
	apiRouter.HandleFunc("/verify-code", h.VerifyCode).Methods(http.MethodPost)
	apiRouter.HandleFunc("/sign-in", h.SignIn).Methods(http.MethodPost)
	apiRouter.HandleFunc("/send-message", h.SendMessage).Methods(http.MethodPost)
	apiRouter.HandleFunc("/suggest-messages", h.SuggestMessages).Methods(http.MethodPost)

	authed := apiRouter.NewRoute().Subrouter()
	authed.Use(Authenticate(tokens))
	authed.HandleFunc("/messages", h.GetMessages).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{messageID}", h.DeleteMessage).Methods(http.MethodDelete)
	authed.HandleFunc("/accept-messages", h.GetAcceptMessages).Methods(http.MethodGet)
	authed.HandleFunc("/accept-messages", h.SetAcceptMessages).Methods(http.MethodPost)

	return router
}
