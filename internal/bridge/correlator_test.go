package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeHost answers Call with the configured function.
type fakeHost struct {
	mu    sync.Mutex
	calls []string
	fn    func(method, payload string) (string, error)
}

func (h *fakeHost) Call(method, payload string) (string, error) {
	h.mu.Lock()
	h.calls = append(h.calls, method)
	h.mu.Unlock()
	if h.fn != nil {
		return h.fn(method, payload)
	}
	return "", nil
}

func readyCorrelator(h Host) (*Correlator, *Registry) {
	reg := NewRegistry()
	reg.SetHost(h)
	mon := NewMonitor(reg)
	mon.Announce()
	return NewCorrelator(reg, mon), reg
}

func TestSyncAbsentHostReturnsUnavailable(t *testing.T) {
	reg := NewRegistry()
	mon := NewMonitor(reg)
	cor := NewCorrelator(reg, mon)

	out := cor.Sync("getCategories", "")
	if out.Status != StatusUnavailable {
		t.Fatalf("expected unavailable, got %+v", out)
	}
}

func TestSyncHostErrorBecomesFailure(t *testing.T) {
	cor, _ := readyCorrelator(&fakeHost{fn: func(string, string) (string, error) {
		return "", errors.New("boom")
	}})

	out := cor.Sync("getCategories", "")
	if out.Status != StatusFailure || out.Kind != KindHostError {
		t.Fatalf("expected host-error failure, got %+v", out)
	}
}

func TestSyncHostPanicBecomesFailure(t *testing.T) {
	cor, _ := readyCorrelator(&fakeHost{fn: func(string, string) (string, error) {
		panic("host exploded")
	}})

	out := cor.Sync("getCategories", "")
	if out.Status != StatusFailure || out.Kind != KindHostError {
		t.Fatalf("expected host-error failure, got %+v", out)
	}
	if !strings.Contains(out.Detail, "host exploded") {
		t.Fatalf("detail should carry the panic value, got %q", out.Detail)
	}
}

func TestAwaitNotReadyReturnsUnavailable(t *testing.T) {
	reg := NewRegistry()
	mon := NewMonitor(reg)
	cor := NewCorrelator(reg, mon)

	out := cor.Await(context.Background(), Request{
		Method:   "sendChatMessage",
		Callback: "onChatResponse",
		Timeout:  time.Second,
	})
	if out.Status != StatusUnavailable {
		t.Fatalf("expected unavailable, got %+v", out)
	}
}

func TestAwaitResolvesOnCallback(t *testing.T) {
	var reg *Registry
	host := &fakeHost{}
	host.fn = func(method, payload string) (string, error) {
		go func() {
			time.Sleep(20 * time.Millisecond)
			reg.Deliver("onChatResponse", `{"ok":true}`)
		}()
		return "", nil
	}
	cor, r := readyCorrelator(host)
	reg = r

	start := time.Now()
	out := cor.Await(context.Background(), Request{
		Method:   "sendChatMessage",
		Payload:  "Show my Aadhaar",
		Callback: "onChatResponse",
		Timeout:  30 * time.Second,
	})
	if !out.OK() {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Value != `{"ok":true}` {
		t.Fatalf("unexpected value %q", out.Value)
	}
	if time.Since(start) > time.Second {
		t.Fatal("await should return as soon as the callback fires, not at the deadline")
	}
}

func TestAwaitTimesOutAndLateCallbackIsDropped(t *testing.T) {
	cor, reg := readyCorrelator(&fakeHost{})

	out := cor.Await(context.Background(), Request{
		Method:   "sendChatMessage",
		Callback: "onChatResponse",
		Timeout:  30 * time.Millisecond,
	})
	if out.Status != StatusFailure || out.Kind != KindTimeout {
		t.Fatalf("expected timeout failure, got %+v", out)
	}

	// The stale registration must be gone: a late callback finds no
	// handler and is dropped silently.
	if reg.Deliver("onChatResponse", `{"late":true}`) {
		t.Fatal("late callback should find no registered handler")
	}
}

func TestAwaitSecondCallOrphansFirst(t *testing.T) {
	var reg *Registry
	host := &fakeHost{}
	cor, r := readyCorrelator(host)
	reg = r

	firstDone := make(chan Outcome, 1)
	go func() {
		firstDone <- cor.Await(context.Background(), Request{
			Method:   "getAllStoredIDs",
			Callback: "onStorageResult",
			Timeout:  80 * time.Millisecond,
		})
	}()
	time.Sleep(20 * time.Millisecond)

	secondDone := make(chan Outcome, 1)
	go func() {
		secondDone <- cor.Await(context.Background(), Request{
			Method:   "getAllStoredIDs",
			Callback: "onStorageResult",
			Timeout:  time.Second,
		})
	}()
	time.Sleep(20 * time.Millisecond)

	// The host answers once; only the second (current) holder may see it.
	if !reg.Deliver("onStorageResult", `{"ids":[]}`) {
		t.Fatal("delivery should reach the second registration")
	}

	second := <-secondDone
	if !second.OK() {
		t.Fatalf("second call should succeed, got %+v", second)
	}

	first := <-firstDone
	if first.Status != StatusFailure || first.Kind != KindTimeout {
		t.Fatalf("orphaned first call should time out on its own, got %+v", first)
	}
}

func TestAwaitCancelledByContext(t *testing.T) {
	cor, reg := readyCorrelator(&fakeHost{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Outcome, 1)
	go func() {
		done <- cor.Await(ctx, Request{
			Method:   "sendChatMessage",
			Callback: "onChatResponse",
			Timeout:  time.Minute,
		})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	out := <-done
	if out.Status != StatusFailure || out.Kind != KindCancelled {
		t.Fatalf("expected cancelled failure, got %+v", out)
	}
	// A callback after teardown must not throw and must not resolve anything.
	if reg.Deliver("onChatResponse", `{}`) {
		t.Fatal("callback after cancellation should find no handler")
	}
}

func TestAwaitErrCallbackResolvesAsHostError(t *testing.T) {
	var reg *Registry
	host := &fakeHost{}
	host.fn = func(method, payload string) (string, error) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			reg.Deliver("onApprovalError", `"disk full"`)
		}()
		return "", nil
	}
	cor, r := readyCorrelator(host)
	reg = r

	out := cor.Await(context.Background(), Request{
		Method:      "approveDocument",
		Callback:    "onDocumentApproved",
		ErrCallback: "onApprovalError",
		Timeout:     time.Second,
	})
	if out.Status != StatusFailure || out.Kind != KindHostError {
		t.Fatalf("expected host-error from the error slot, got %+v", out)
	}
}

func TestAwaitIssueErrorReleasesSlot(t *testing.T) {
	cor, reg := readyCorrelator(&fakeHost{fn: func(string, string) (string, error) {
		return "", errors.New("method missing")
	}})

	out := cor.Await(context.Background(), Request{
		Method:   "sendChatMessage",
		Callback: "onChatResponse",
		Timeout:  time.Second,
	})
	if out.Status != StatusFailure || out.Kind != KindHostError {
		t.Fatalf("expected host-error, got %+v", out)
	}
	if reg.Deliver("onChatResponse", `{}`) {
		t.Fatal("slot should have been released after the failed issue")
	}
}

func TestSubscribeTeardownIsIdempotent(t *testing.T) {
	cor, reg := readyCorrelator(&fakeHost{})

	got := make(chan string, 1)
	release := cor.Subscribe("onDocumentPreview", func(payload string) { got <- payload })
	if !reg.Deliver("onDocumentPreview", `{"id":"D1"}`) {
		t.Fatal("subscribed handler should receive the payload")
	}
	<-got

	release()
	release() // second release is harmless
	if reg.Deliver("onDocumentPreview", `{"id":"D2"}`) {
		t.Fatal("released handler should not receive payloads")
	}
}

func TestDecodeMalformedJSONIsParseError(t *testing.T) {
	var v struct{ ID string }
	out := Decode(Success(`{"id":`), &v)
	if out.Status != StatusFailure || out.Kind != KindParseError {
		t.Fatalf("expected parse-error, got %+v", out)
	}

	ok := Decode(Success(`{"ID":"D1"}`), &v)
	if !ok.OK() || v.ID != "D1" {
		t.Fatalf("round trip failed: %+v %+v", ok, v)
	}
}
