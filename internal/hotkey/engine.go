package hotkey

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/voxtray/voxtray/internal/permissions"
	"github.com/voxtray/voxtray/internal/shortcut"
)

// Config wires an Engine to its collaborators.
type Config struct {
	Logger      zerolog.Logger
	Permissions permissions.Gate
	OnKeyDown   func()
	OnKeyUp     func()
	// Sources overrides the platform source selection; nil picks the
	// event tap or system hotkey backend based on the gesture.
	Sources SourceFactory
}

// Engine is the global hotkey recognition engine. One registered gesture at a
// time; Register/Unregister/Suspend/Resume may be called from any goroutine
// and are marshaled onto the engine's dispatch goroutine, which is the only
// place registration and match state are touched. The OnKeyDown/OnKeyUp
// callbacks fire on that goroutine and must not block; consumers defer any
// real work to their own path.
type Engine struct {
	log  zerolog.Logger
	gate permissions.Gate

	onKeyDown func()
	onKeyUp   func()
	sources   SourceFactory

	cmds   chan command
	events chan RawKeyEvent
	quit   chan struct{}

	// Dispatch-goroutine confined from here down.
	registered bool
	suspended  bool
	sc         shortcut.Shortcut
	match      *classifier
	source     Source
}

type command struct {
	fn   func() error
	done chan error
}

func New(cfg Config) *Engine {
	e := &Engine{
		log:       cfg.Logger,
		gate:      cfg.Permissions,
		onKeyDown: cfg.OnKeyDown,
		onKeyUp:   cfg.OnKeyUp,
		sources:   cfg.Sources,
		cmds:      make(chan command),
		events:    make(chan RawKeyEvent, 128),
		quit:      make(chan struct{}),
	}
	if e.gate == nil {
		e.gate = permissions.NewGate()
	}
	if e.sources == nil {
		e.sources = newPlatformSource
	}
	go e.loop()
	return e
}

// Register arms the engine for the given gesture. An existing registration is
// fully released first, so replacing the shortcut is a single call. On
// permission denial or hook failure the engine stays unregistered and the
// caller may retry.
func (e *Engine) Register(sc shortcut.Shortcut) error {
	return e.do(func() error { return e.register(sc) })
}

// Unregister releases the hook. Safe to call when not registered.
func (e *Engine) Unregister() error {
	return e.do(func() error { e.unregister(); return nil })
}

// Suspend disables event delivery without releasing the hook. A no-op unless
// currently registered and not already suspended.
func (e *Engine) Suspend() error {
	return e.do(func() error { return e.suspend() })
}

// Resume re-enables a suspended registration. A no-op unless suspended.
func (e *Engine) Resume() error {
	return e.do(func() error { return e.resume() })
}

// Close unregisters and stops the dispatch goroutine.
func (e *Engine) Close() error {
	err := e.Unregister()
	close(e.quit)
	return err
}

// do marshals fn onto the dispatch goroutine and waits for it, so lifecycle
// calls are synchronous from the caller's perspective.
func (e *Engine) do(fn func() error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case e.cmds <- cmd:
		return <-cmd.done
	case <-e.quit:
		return fmt.Errorf("hotkey engine closed")
	}
}

func (e *Engine) loop() {
	for {
		select {
		case cmd := <-e.cmds:
			cmd.done <- cmd.fn()
		case ev := <-e.events:
			e.dispatch(ev)
		case <-e.quit:
			return
		}
	}
}

// deliver is handed to sources; it runs on the hook's own thread and must
// return promptly, so a full queue drops the event rather than blocking.
func (e *Engine) deliver(ev RawKeyEvent) {
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Engine) register(sc shortcut.Shortcut) error {
	if e.registered {
		e.unregister()
	}
	if err := sc.Validate(); err != nil {
		return err
	}

	// The non-privileged backend needs no permission; only the event tap is
	// gated behind the accessibility privilege.
	if sc.RequiresEventTap() && !e.gate.Granted() && !e.gate.Request() {
		e.log.Warn().
			Int("keyCode", sc.KeyCode).
			Str("modifiers", sc.Modifiers.String()).
			Msg("hotkey registration denied: accessibility permission missing")
		return fmt.Errorf("accessibility permission not granted")
	}

	src, err := e.sources(sc)
	if err != nil {
		e.log.Error().Err(err).Msg("hotkey source unavailable")
		return err
	}
	if err := src.Open(e.deliver); err != nil {
		e.log.Error().Err(err).Msg("failed to open hotkey source")
		return fmt.Errorf("open hotkey source: %w", err)
	}

	e.source = src
	e.sc = sc
	e.match = newClassifier(sc)
	e.registered = true
	e.suspended = false

	e.log.Info().
		Int("keyCode", sc.KeyCode).
		Str("modifiers", sc.Modifiers.String()).
		Str("backend", src.Backend()).
		Bool("isModifiersOnly", sc.IsModifiersOnly()).
		Msg("hotkey_registered")
	return nil
}

func (e *Engine) unregister() {
	if !e.registered {
		return
	}
	if err := e.source.Close(); err != nil {
		e.log.Error().Err(err).Msg("failed to close hotkey source")
	}
	e.log.Info().
		Int("keyCode", e.sc.KeyCode).
		Str("modifiers", e.sc.Modifiers.String()).
		Str("backend", e.source.Backend()).
		Bool("isModifiersOnly", e.sc.IsModifiersOnly()).
		Msg("hotkey_unregistered")

	e.source = nil
	e.registered = false
	e.suspended = false
	e.match.reset()
}

func (e *Engine) suspend() error {
	if !e.registered || e.suspended {
		return nil
	}
	if err := e.source.SetEnabled(false); err != nil {
		return fmt.Errorf("disable hotkey source: %w", err)
	}
	e.suspended = true
	e.match.reset()
	return nil
}

func (e *Engine) resume() error {
	if !e.registered || !e.suspended {
		return nil
	}
	if err := e.source.SetEnabled(true); err != nil {
		return fmt.Errorf("enable hotkey source: %w", err)
	}
	e.suspended = false
	e.match.reset()
	return nil
}

func (e *Engine) dispatch(ev RawKeyEvent) {
	if !e.registered || e.suspended {
		return
	}
	down, up := e.match.feed(ev)
	if down {
		e.log.Debug().
			Int("keyCode", e.sc.KeyCode).
			Str("modifiers", e.sc.Modifiers.String()).
			Str("backend", e.source.Backend()).
			Bool("isModifiersOnly", e.sc.IsModifiersOnly()).
			Msg("key_down")
		if e.onKeyDown != nil {
			e.onKeyDown()
		}
	}
	if up {
		e.log.Debug().
			Int("keyCode", e.sc.KeyCode).
			Str("modifiers", e.sc.Modifiers.String()).
			Str("backend", e.source.Backend()).
			Bool("isModifiersOnly", e.sc.IsModifiersOnly()).
			Msg("key_up")
		if e.onKeyUp != nil {
			e.onKeyUp()
		}
	}
}
