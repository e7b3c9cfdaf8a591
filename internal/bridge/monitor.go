package bridge

import (
	"context"
	"sync"
	"time"
)

// Readiness describes host object availability.
type Readiness int

const (
	ReadinessUnknown Readiness = iota
	ReadinessAbsent
	ReadinessReady
)

const defaultPollInterval = 500 * time.Millisecond

// Monitor watches the registry for the host object to appear. Injection
// timing is non-deterministic, so the monitor polls at a fixed interval and
// also accepts an explicit announcement from hosts that signal their own
// readiness. If the host never appears polling continues until the context
// is cancelled; adapters are expected to fall back rather than block.
type Monitor struct {
	reg      *Registry
	interval time.Duration

	mu       sync.Mutex
	state    Readiness
	subs     []func()
	announce chan struct{}
}

func NewMonitor(reg *Registry) *Monitor {
	return &Monitor{
		reg:      reg,
		interval: defaultPollInterval,
		announce: make(chan struct{}, 1),
	}
}

// SetInterval overrides the poll interval. Must be called before Start.
func (m *Monitor) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Start begins polling on its own goroutine and returns immediately.
func (m *Monitor) Start(ctx context.Context) {
	if m.check() {
		return
	}
	go m.poll(ctx)
}

func (m *Monitor) poll(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.announce:
		case <-ticker.C:
		}
		if m.check() {
			return
		}
	}
}

// check inspects the registry and flips to ready on detection, firing the
// one-time subscriber notifications.
func (m *Monitor) check() bool {
	if m.reg.Host() == nil {
		return false
	}
	m.mu.Lock()
	if m.state == ReadinessReady {
		m.mu.Unlock()
		return true
	}
	m.state = ReadinessReady
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
	return true
}

// Announce is the externally-dispatched ready signal: hosts that announce
// themselves call this instead of waiting for the next poll tick.
func (m *Monitor) Announce() {
	select {
	case m.announce <- struct{}{}:
	default:
	}
	m.check()
}

// State returns the current readiness without blocking.
func (m *Monitor) State() Readiness {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsReady reports whether the host object has been detected.
func (m *Monitor) IsReady() bool {
	return m.State() == ReadinessReady
}

// OnReady registers fn to run once: immediately if the host is already
// detected, otherwise on the next detection.
func (m *Monitor) OnReady(fn func()) {
	m.mu.Lock()
	if m.state == ReadinessReady {
		m.mu.Unlock()
		fn()
		return
	}
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}
