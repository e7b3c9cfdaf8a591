package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pothipatra/internal/bridge"
	"pothipatra/internal/chat"
	"pothipatra/internal/models"
	"pothipatra/internal/people"
	"pothipatra/internal/utils"
	"pothipatra/internal/vault"
)

// Server bundles the adapters behind the preview routes.
type Server struct {
	Chat   *chat.Adapter
	Vault  *vault.Adapter
	People *people.Adapter
	Mon    *bridge.Monitor
	Log    *utils.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeOutcome renders a non-success outcome; callers handle success.
func writeOutcome(w http.ResponseWriter, out bridge.Outcome) {
	if out.Status == bridge.StatusUnavailable {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": out.Err()})
		return
	}
	writeJSON(w, statusOf(string(out.Kind)), map[string]string{
		"error":  out.Err(),
		"kind":   string(out.Kind),
		"source": string(out.Source),
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) BridgeStatusHandler(w http.ResponseWriter, r *http.Request) {
	state := "waiting"
	if s.Mon.IsReady() {
		state = "ready"
	}
	writeJSON(w, http.StatusOK, map[string]string{"bridge": state})
}

type chatSendRequest struct {
	Message string `json:"message"`
}

func (s *Server) ChatSendHandler(w http.ResponseWriter, r *http.Request) {
	var req chatSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	reply, out := s.Chat.SendMessage(r.Context(), req.Message)
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply, "source": out.Source})
}

func (s *Server) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sessions, out := s.Chat.History()
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) ChatNewSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, out := s.Chat.NewSession()
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	msgs, out := s.Chat.Messages(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) ChatSearchHandler(w http.ResponseWriter, r *http.Request) {
	sessions, out := s.Chat.Search(r.URL.Query().Get("q"))
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) VaultListHandler(w http.ResponseWriter, r *http.Request) {
	ids, out := s.Vault.StoredIDs(r.Context())
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, models.StorageListing{IDs: ids})
}

func (s *Server) VaultDeleteHandler(w http.ResponseWriter, r *http.Request) {
	out := s.Vault.Delete(r.Context(), mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) VaultApproveHandler(w http.ResponseWriter, r *http.Request) {
	saved, out := s.Vault.Approve(r.Context())
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) VaultRejectHandler(w http.ResponseWriter, r *http.Request) {
	out := s.Vault.Reject(r.Context())
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"rejected": true})
}

func (s *Server) VaultEditHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.DocumentPreview
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	saved, out := s.Vault.Edit(r.Context(), patch)
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, out := s.People.Categories()
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) SubcategoriesHandler(w http.ResponseWriter, r *http.Request) {
	subs, out := s.People.Subcategories(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) DocsBySubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	docs, out := s.People.DocumentsBySubcategory(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) PersonsHandler(w http.ResponseWriter, r *http.Request) {
	persons, out := s.People.Persons()
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (s *Server) DocsByPersonHandler(w http.ResponseWriter, r *http.Request) {
	docs, out := s.People.DocumentsByPerson(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

type mergeRequest struct {
	KeepID  string `json:"keepId"`
	MergeID string `json:"mergeId"`
}

func (s *Server) MergePersonsHandler(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	out := s.People.Merge(req.KeepID, req.MergeID)
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"merged": true})
}

func (s *Server) SetPrimaryHandler(w http.ResponseWriter, r *http.Request) {
	out := s.People.SetPrimaryUser(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"primary": true})
}

func (s *Server) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, out := s.People.Profile(mux.Vars(r)["id"])
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	out := s.People.UpdateProfile(mux.Vars(r)["id"], profile)
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) RelationshipsHandler(w http.ResponseWriter, r *http.Request) {
	rels, out := s.People.Relationships()
	if !out.OK() {
		writeOutcome(w, out)
		return
	}
	writeJSON(w, http.StatusOK, rels)
}
