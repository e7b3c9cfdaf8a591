// Package chat adapts the host's chat surface: inference goes through the
// callback-mode correlator, history and session management are synchronous
// getters, and a local echo implementation stands in when no host appears.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pothipatra/internal/bridge"
	"pothipatra/internal/models"
	"pothipatra/internal/utils"
)

// ResponseTimeout bounds how long a chat turn may take before the UI gets a
// deterministic timeout failure.
const ResponseTimeout = 30 * time.Second

// echoDelay is how long the local fallback pretends to think.
const echoDelay = 300 * time.Millisecond

// Adapter is the chat feature's only path to the bridge. Whether it talks to
// the host or to the local echo fallback is decided once, at first use.
type Adapter struct {
	cor *bridge.Correlator
	mon *bridge.Monitor
	log *utils.Logger

	mu      sync.Mutex
	decided bool
	local   bool
	busy    bool

	// local fallback state
	sessions []models.ChatSession
	messages map[string][]models.ChatMessage
}

func New(cor *bridge.Correlator, mon *bridge.Monitor, log *utils.Logger) *Adapter {
	return &Adapter{
		cor:      cor,
		mon:      mon,
		log:      log,
		messages: make(map[string][]models.ChatMessage),
	}
}

// useLocal latches the backend decision on first call.
func (a *Adapter) useLocal() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.decided {
		a.decided = true
		a.local = !a.mon.IsReady()
		if a.local {
			a.log.Warn("chat: bridge not ready, using local echo fallback")
		}
	}
	return a.local
}

// Busy reports whether a send is in flight, so the UI can disable its send
// control instead of issuing a second request that would orphan the first.
func (a *Adapter) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

func (a *Adapter) setBusy(v bool) {
	a.mu.Lock()
	a.busy = v
	a.mu.Unlock()
}

// SendMessage submits one user turn and blocks until the assistant reply
// arrives, the timeout passes, or ctx is cancelled.
func (a *Adapter) SendMessage(ctx context.Context, message string) (models.ChatReply, bridge.Outcome) {
	var reply models.ChatReply
	if strings.TrimSpace(message) == "" {
		return reply, bridge.Failure(bridge.KindValidation, "message must not be empty")
	}
	a.setBusy(true)
	defer a.setBusy(false)

	if a.useLocal() {
		return a.echo(ctx, message)
	}
	out := a.cor.Await(ctx, bridge.Request{
		Method:   bridge.CapSendChatMessage,
		Payload:  message,
		Callback: bridge.CbChatResponse,
		Timeout:  ResponseTimeout,
	})
	out = bridge.Decode(out, &reply)
	return reply, out
}

// History returns all chat sessions, newest last.
func (a *Adapter) History() ([]models.ChatSession, bridge.Outcome) {
	if a.useLocal() {
		a.mu.Lock()
		sessions := append([]models.ChatSession(nil), a.sessions...)
		a.mu.Unlock()
		raw, _ := json.Marshal(sessions)
		return sessions, bridge.Success(string(raw)).Local()
	}
	var sessions []models.ChatSession
	out := bridge.Decode(a.cor.Sync(bridge.CapGetChatHistory, ""), &sessions)
	return sessions, out
}

// Messages returns the turns of one session.
func (a *Adapter) Messages(sessionID string) ([]models.ChatMessage, bridge.Outcome) {
	if sessionID == "" {
		return nil, bridge.Failure(bridge.KindValidation, "session id required")
	}
	if a.useLocal() {
		a.mu.Lock()
		msgs := append([]models.ChatMessage(nil), a.messages[sessionID]...)
		a.mu.Unlock()
		raw, _ := json.Marshal(msgs)
		return msgs, bridge.Success(string(raw)).Local()
	}
	var msgs []models.ChatMessage
	out := bridge.Decode(a.cor.Sync(bridge.CapGetChatMessages, sessionID), &msgs)
	return msgs, out
}

// NewSession starts a fresh conversation and returns its id.
func (a *Adapter) NewSession() (string, bridge.Outcome) {
	if a.useLocal() {
		now := time.Now().UTC().Format(time.RFC3339)
		session := models.ChatSession{
			ID:        uuid.NewString(),
			Title:     "New chat",
			CreatedAt: now,
			UpdatedAt: now,
		}
		a.mu.Lock()
		a.sessions = append(a.sessions, session)
		a.mu.Unlock()
		return session.ID, bridge.Success(session.ID).Local()
	}
	out := a.cor.Sync(bridge.CapStartNewSession, "")
	if !out.OK() {
		return "", out
	}
	id := strings.TrimSpace(out.Value)
	if id == "" {
		return "", bridge.Failure(bridge.KindHostError, "host returned empty session id")
	}
	return id, out
}

// Search filters chat history by query.
func (a *Adapter) Search(query string) ([]models.ChatSession, bridge.Outcome) {
	if a.useLocal() {
		sessions, _ := a.History()
		q := strings.ToLower(query)
		matched := make([]models.ChatSession, 0)
		for _, s := range sessions {
			if strings.Contains(strings.ToLower(s.Title), q) {
				matched = append(matched, s)
			}
		}
		raw, _ := json.Marshal(matched)
		return matched, bridge.Success(string(raw)).Local()
	}
	var sessions []models.ChatSession
	out := bridge.Decode(a.cor.Sync(bridge.CapSearchChatHistory, query), &sessions)
	return sessions, out
}

// echo is the local fallback reply: the input text back after a fixed delay.
func (a *Adapter) echo(ctx context.Context, message string) (models.ChatReply, bridge.Outcome) {
	select {
	case <-time.After(echoDelay):
	case <-ctx.Done():
		return models.ChatReply{}, bridge.Failure(bridge.KindCancelled, ctx.Err().Error()).Local()
	}
	reply := models.ChatReply{Message: "(offline) " + message}
	raw, _ := json.Marshal(reply)
	return reply, bridge.Success(string(raw)).Local()
}
