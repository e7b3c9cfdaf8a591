package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultAwaitTimeout is the deadline applied when a Request carries none.
// Chat inference is the slowest host operation and sets the reference value.
const DefaultAwaitTimeout = 30 * time.Second

// Request describes one callback-mode bridge call.
type Request struct {
	Method  string
	Payload string

	// Callback is the slot the host pushes the result into.
	Callback string

	// ErrCallback optionally names a second slot the host pushes errors
	// into for this operation (the approval flow uses onApprovalError).
	// A payload arriving there resolves the request as a host error.
	ErrCallback string

	Timeout time.Duration
}

// Correlator issues bridge calls and produces exactly one Outcome per call,
// whether the host answers synchronously, pushes a callback later, or never
// answers at all.
type Correlator struct {
	reg *Registry
	mon *Monitor
}

func NewCorrelator(reg *Registry, mon *Monitor) *Correlator {
	return &Correlator{reg: reg, mon: mon}
}

// Ready reports whether callback-mode calls can currently be issued.
func (c *Correlator) Ready() bool { return c.mon.IsReady() }

// Sync calls a capability that answers with an immediate return value.
// An absent host yields Unavailable, a host error yields a host-error
// failure; Sync never panics into the caller.
func (c *Correlator) Sync(method, payload string) Outcome {
	h := c.reg.Host()
	if h == nil {
		return Unavailable()
	}
	raw, err := callHost(h, method, payload)
	if err != nil {
		return Failure(KindHostError, err.Error())
	}
	return Success(raw)
}

// pending is one in-flight callback-mode call. Its completion slot is
// single-use: whichever of callback, error callback, timeout or cancel
// resolves first wins and every later resolution attempt is a no-op.
type pending struct {
	id   string
	done chan Outcome
}

func newPending() *pending {
	return &pending{id: uuid.NewString(), done: make(chan Outcome, 1)}
}

func (p *pending) resolve(o Outcome) {
	select {
	case p.done <- o:
	default:
	}
}

// Await issues a callback-mode call and blocks until the host pushes into
// the registered slot, the deadline passes, or ctx is cancelled. Registering
// replaces any existing holder of the slot: a still-unresolved earlier call
// is orphaned and can only finish through its own timeout.
func (c *Correlator) Await(ctx context.Context, req Request) Outcome {
	if !c.mon.IsReady() {
		return Unavailable()
	}
	h := c.reg.Host()
	if h == nil {
		return Unavailable()
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}

	p := newPending()
	c.reg.Bind(req.Callback, p.id, func(payload string) {
		p.resolve(Success(payload))
	})
	if req.ErrCallback != "" {
		c.reg.Bind(req.ErrCallback, p.id, func(payload string) {
			p.resolve(Failure(KindHostError, payload))
		})
	}
	release := func() {
		c.reg.Release(req.Callback, p.id)
		if req.ErrCallback != "" {
			c.reg.Release(req.ErrCallback, p.id)
		}
	}

	if _, err := callHost(h, req.Method, req.Payload); err != nil {
		release()
		return Failure(KindHostError, err.Error())
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case out := <-p.done:
		release()
		return out
	case <-timer.C:
		// Unregister before reading the slot one last time so a callback
		// racing the timer still wins, but nothing can arrive after.
		release()
		p.resolve(Failure(KindTimeout, fmt.Sprintf("%s: no %s within %s", req.Method, req.Callback, timeout)))
		return <-p.done
	case <-ctx.Done():
		release()
		p.resolve(Failure(KindCancelled, ctx.Err().Error()))
		return <-p.done
	}
}

// Subscribe binds a long-lived handler for a host-pushed slot (document
// preview and view arrive unsolicited). The returned func tears the binding
// down; calling it after the slot was replaced or released is harmless.
func (c *Correlator) Subscribe(callback string, handler HandlerFunc) func() {
	owner := uuid.NewString()
	c.reg.Bind(callback, owner, handler)
	return func() { c.reg.Release(callback, owner) }
}

// callHost shields callers from a misbehaving host implementation: a panic
// inside Call surfaces as an ordinary error.
func callHost(h Host, method, payload string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: host panic: %v", method, r)
		}
	}()
	return h.Call(method, payload)
}
