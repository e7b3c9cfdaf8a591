// Package api is the browser-preview shell: an HTTP surface over the
// feature adapters, standing in for the WebView page during development.
// Handlers consume adapters only and never touch the bridge directly.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every preview route to the adapter-backed server.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.HandleFunc("/bridge/status", s.BridgeStatusHandler).Methods("GET")

	r.HandleFunc("/chat/send", s.ChatSendHandler).Methods("POST")
	r.HandleFunc("/chat/sessions", s.ChatHistoryHandler).Methods("GET")
	r.HandleFunc("/chat/sessions", s.ChatNewSessionHandler).Methods("POST")
	r.HandleFunc("/chat/sessions/{id}/messages", s.ChatMessagesHandler).Methods("GET")
	r.HandleFunc("/chat/search", s.ChatSearchHandler).Methods("GET")

	r.HandleFunc("/vault/ids", s.VaultListHandler).Methods("GET")
	r.HandleFunc("/vault/ids/{id}", s.VaultDeleteHandler).Methods("DELETE")
	r.HandleFunc("/vault/approve", s.VaultApproveHandler).Methods("POST")
	r.HandleFunc("/vault/reject", s.VaultRejectHandler).Methods("POST")
	r.HandleFunc("/vault/edit", s.VaultEditHandler).Methods("POST")

	r.HandleFunc("/categories", s.CategoriesHandler).Methods("GET")
	r.HandleFunc("/categories/{id}/subcategories", s.SubcategoriesHandler).Methods("GET")
	r.HandleFunc("/subcategories/{id}/documents", s.DocsBySubcategoryHandler).Methods("GET")
	r.HandleFunc("/persons", s.PersonsHandler).Methods("GET")
	r.HandleFunc("/persons/merge", s.MergePersonsHandler).Methods("POST")
	r.HandleFunc("/persons/{id}/documents", s.DocsByPersonHandler).Methods("GET")
	r.HandleFunc("/persons/{id}/primary", s.SetPrimaryHandler).Methods("POST")
	r.HandleFunc("/profiles/{id}", s.ProfileHandler).Methods("GET")
	r.HandleFunc("/profiles/{id}", s.UpdateProfileHandler).Methods("PUT")
	r.HandleFunc("/relationships", s.RelationshipsHandler).Methods("GET")

	return r
}

// statusOf maps an outcome to the HTTP status the preview page expects.
func statusOf(kind string) int {
	switch kind {
	case "timeout":
		return http.StatusGatewayTimeout
	case "validation-error":
		return http.StatusBadRequest
	case "parse-error", "host-error":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
