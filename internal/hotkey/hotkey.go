package hotkey

import "github.com/voxtray/voxtray/internal/shortcut"

// EventKind classifies a raw keyboard event.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	FlagsChanged
)

// RawKeyEvent is the abstract event shape produced by a platform Source.
// It is the only input the gesture classifier understands, so the classifier
// carries no dependency on any OS input API.
type RawKeyEvent struct {
	Kind EventKind
	// KeyCode is the physical key for KeyDown/KeyUp. FlagsChanged events
	// carry the code of the modifier key that moved; the classifier ignores
	// it for those.
	KeyCode    int
	Modifiers  shortcut.Modifiers
	AutoRepeat bool
}

// Source owns one OS-level hook for the lifetime of a registration. Open
// creates and enables the hook; delivered events arrive on the hook's own
// thread and must be handed off without blocking. SetEnabled(false)/(true)
// implement suspend/resume without releasing the hook.
type Source interface {
	Open(deliver func(RawKeyEvent)) error
	SetEnabled(enabled bool) error
	Close() error
	Backend() string
}

// SourceFactory builds the Source for a shortcut. The default picks the
// privileged event tap or the plain system hotkey backend depending on the
// gesture; tests substitute a fake.
type SourceFactory func(sc shortcut.Shortcut) (Source, error)
