package bridge

import "sync"

// HandlerFunc receives the raw JSON payload the host pushed into a slot.
type HandlerFunc func(payload string)

// Registry holds the injected host object and one callback slot per
// capability. It is the process-wide stand-in for the global callback
// namespace of the WebView page: last register wins, stale registrations are
// inert, delivery to an empty slot is dropped silently.
type Registry struct {
	mu    sync.RWMutex
	host  Host
	slots map[string]slot
}

type slot struct {
	owner   string
	handler HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]slot)}
}

// SetHost installs the host object. Called once by the native shell when it
// has finished injecting itself.
func (r *Registry) SetHost(h Host) {
	r.mu.Lock()
	r.host = h
	r.mu.Unlock()
}

// Host returns the injected host object, or nil if none has been installed.
func (r *Registry) Host() Host {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.host
}

// Bind registers handler under name, replacing any existing holder. The owner
// token scopes Release so a superseded holder cannot tear down its successor.
func (r *Registry) Bind(name, owner string, handler HandlerFunc) {
	r.mu.Lock()
	r.slots[name] = slot{owner: owner, handler: handler}
	r.mu.Unlock()
}

// Release clears the slot only if owner still holds it. Releasing a slot that
// was replaced or already released is a no-op.
func (r *Registry) Release(name, owner string) {
	r.mu.Lock()
	if s, ok := r.slots[name]; ok && s.owner == owner {
		delete(r.slots, name)
	}
	r.mu.Unlock()
}

// Deliver is invoked by the host to push a payload into a slot. It reports
// whether a handler consumed the payload; a miss is not an error, it is a
// stray callback arriving after teardown.
func (r *Registry) Deliver(name, payload string) bool {
	r.mu.RLock()
	s, ok := r.slots[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	s.handler(payload)
	return true
}
