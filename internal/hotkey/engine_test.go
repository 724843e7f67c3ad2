package hotkey

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/voxtray/voxtray/internal/shortcut"
)

// Mock implementations for testing

type fakeGate struct {
	granted   bool
	requested bool
}

func (g *fakeGate) Granted() bool { return g.granted }
func (g *fakeGate) Request() bool {
	g.requested = true
	return g.granted
}

type fakeSource struct {
	mu      sync.Mutex
	opened  bool
	enabled bool
	closed  bool
	openErr error
	deliver func(RawKeyEvent)
}

func (f *fakeSource) Open(deliver func(RawKeyEvent)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	f.enabled = true
	f.deliver = deliver
	return nil
}

func (f *fakeSource) SetEnabled(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	return nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.enabled = false
	return nil
}

func (f *fakeSource) Backend() string { return "fake" }

// emit injects an event the way the OS hook would: from a foreign thread,
// without blocking.
func (f *fakeSource) emit(ev RawKeyEvent) {
	f.mu.Lock()
	deliver := f.deliver
	f.mu.Unlock()
	if deliver != nil {
		deliver(ev)
	}
}

func (f *fakeSource) isEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type signalRecorder struct {
	mu      sync.Mutex
	signals []string
}

func (r *signalRecorder) down() { r.add("down") }
func (r *signalRecorder) up()   { r.add("up") }

func (r *signalRecorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, s)
}

func (r *signalRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.signals))
	copy(out, r.signals)
	return out
}

// waitSignals polls until the recorder holds exactly want, failing on timeout
// or on any unexpected signal.
func waitSignals(t *testing.T, r *signalRecorder, want []string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		got := r.snapshot()
		if len(got) == len(want) {
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("signals = %v, want %v", got, want)
				}
			}
			return
		}
		if len(got) > len(want) || time.Now().After(deadline) {
			t.Fatalf("signals = %v, want %v", got, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// settle gives the dispatch goroutine a chance to drain queued events before
// asserting that nothing fired.
func settle() { time.Sleep(50 * time.Millisecond) }

func newTestEngine(t *testing.T, src *fakeSource, gate *fakeGate) (*Engine, *signalRecorder) {
	t.Helper()
	rec := &signalRecorder{}
	e := New(Config{
		Logger:      zerolog.Nop(),
		Permissions: gate,
		OnKeyDown:   rec.down,
		OnKeyUp:     rec.up,
		Sources:     func(shortcut.Shortcut) (Source, error) { return src, nil },
	})
	t.Cleanup(func() { e.Close() })
	return e, rec
}

var ctrlShiftTap = shortcut.Shortcut{
	KeyCode:   shortcut.KeyModifiersOnly,
	Modifiers: shortcut.ModControl | shortcut.ModShift,
}

func TestRegisterAndRoundTrip(t *testing.T) {
	src := &fakeSource{}
	e, rec := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Register(shortcut.Shortcut{KeyCode: 49, Modifiers: shortcut.ModControl}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !src.opened {
		t.Fatal("source not opened")
	}

	src.emit(keyDown(49, shortcut.ModControl))
	src.emit(keyUp(49))
	waitSignals(t, rec, []string{"down", "up"})
}

func TestRegisterDeniedPermission(t *testing.T) {
	src := &fakeSource{}
	gate := &fakeGate{granted: false}
	e, rec := newTestEngine(t, src, gate)

	if err := e.Register(ctrlShiftTap); err == nil {
		t.Fatal("expected error when permission denied")
	}
	if !gate.requested {
		t.Error("permission was never requested")
	}
	if src.opened {
		t.Error("source opened despite denied permission")
	}

	// Remains unregistered: nothing dispatches.
	src.emit(flags(ctrlShiftTap.Modifiers))
	src.emit(flags(0))
	settle()
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("signals = %v, want none", got)
	}
}

func TestPermissionNotNeededForSystemBackend(t *testing.T) {
	src := &fakeSource{}
	gate := &fakeGate{granted: false}
	e, _ := newTestEngine(t, src, gate)

	// Ordinary shortcuts never consult the gate.
	if err := e.Register(shortcut.Shortcut{KeyCode: 49, Modifiers: shortcut.ModControl}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if gate.requested {
		t.Error("gate consulted for a non-privileged shortcut")
	}
}

func TestRegisterOpenFailure(t *testing.T) {
	src := &fakeSource{openErr: fmt.Errorf("tap refused")}
	e, _ := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Register(ctrlShiftTap); err == nil {
		t.Fatal("expected error when source open fails")
	}
	// Recoverable: a retry with a working source succeeds.
	src.mu.Lock()
	src.openErr = nil
	src.mu.Unlock()
	if err := e.Register(ctrlShiftTap); err != nil {
		t.Fatalf("retry Register: %v", err)
	}
}

func TestRegisterRejectsEmptyModifiersOnly(t *testing.T) {
	e, _ := newTestEngine(t, &fakeSource{}, &fakeGate{granted: true})
	if err := e.Register(shortcut.Shortcut{KeyCode: shortcut.KeyModifiersOnly}); err == nil {
		t.Fatal("expected error for modifiers-only shortcut with no modifiers")
	}
}

func TestReRegisterReplacesShortcut(t *testing.T) {
	first := &fakeSource{}
	second := &fakeSource{}
	sources := []*fakeSource{first, second}
	rec := &signalRecorder{}
	e := New(Config{
		Logger:    zerolog.Nop(),
		OnKeyDown: rec.down,
		OnKeyUp:   rec.up,
		Sources: func(shortcut.Shortcut) (Source, error) {
			src := sources[0]
			sources = sources[1:]
			return src, nil
		},
	})
	defer e.Close()

	old := shortcut.Shortcut{KeyCode: 49, Modifiers: shortcut.ModControl}
	if err := e.Register(old); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := e.Register(shortcut.Shortcut{KeyCode: 2, Modifiers: shortcut.ModCommand}); err != nil {
		t.Fatalf("re-Register: %v", err)
	}

	if !first.isClosed() {
		t.Error("previous source not released on re-registration")
	}
	if !second.opened {
		t.Error("new source not opened")
	}

	// The old gesture must never produce signals after the call.
	second.emit(keyDown(old.KeyCode, old.Modifiers))
	second.emit(keyUp(old.KeyCode))
	settle()
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("old shortcut fired: %v", got)
	}
}

func TestSuspendResumeResetsMatchState(t *testing.T) {
	src := &fakeSource{}
	e, rec := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Register(ctrlShiftTap); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Candidate active at suspend time must never fire after resume.
	src.emit(flags(ctrlShiftTap.Modifiers))
	settle()
	if err := e.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if src.isEnabled() {
		t.Error("source still enabled while suspended")
	}
	if err := e.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if !src.isEnabled() {
		t.Error("source not re-enabled on resume")
	}

	src.emit(flags(0))
	settle()
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("stale candidate fired across suspend/resume: %v", got)
	}

	// A fresh tap after resume works.
	src.emit(flags(ctrlShiftTap.Modifiers))
	src.emit(flags(0))
	waitSignals(t, rec, []string{"down", "up"})
}

func TestEventsIgnoredWhileSuspended(t *testing.T) {
	src := &fakeSource{}
	e, rec := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Register(ctrlShiftTap); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := e.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}

	// A disabled hook should not deliver, but even if straggler events
	// arrive they must not dispatch.
	src.emit(flags(ctrlShiftTap.Modifiers))
	src.emit(flags(0))
	settle()
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("signals while suspended: %v", got)
	}
}

func TestLifecycleWrongStateIsNoop(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Suspend(); err != nil {
		t.Errorf("Suspend while unregistered: %v", err)
	}
	if err := e.Resume(); err != nil {
		t.Errorf("Resume while unregistered: %v", err)
	}
	if err := e.Unregister(); err != nil {
		t.Errorf("Unregister while unregistered: %v", err)
	}

	if err := e.Register(ctrlShiftTap); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := e.Resume(); err != nil {
		t.Errorf("Resume while not suspended: %v", err)
	}
	if src.isEnabled() != true {
		t.Error("spurious Resume changed source state")
	}
}

func TestUnregisterStopsDispatch(t *testing.T) {
	src := &fakeSource{}
	e, rec := newTestEngine(t, src, &fakeGate{granted: true})

	if err := e.Register(ctrlShiftTap); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := e.Unregister(); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if !src.isClosed() {
		t.Error("source not closed on unregister")
	}

	src.emit(flags(ctrlShiftTap.Modifiers))
	src.emit(flags(0))
	settle()
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("signals after unregister: %v", got)
	}
}
