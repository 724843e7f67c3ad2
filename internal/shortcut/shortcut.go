package shortcut

import (
	"fmt"
	"strings"
)

// KeyModifiersOnly is the key code sentinel for gestures defined purely by a
// modifier combination (e.g. tap Command alone), with no ordinary key.
const KeyModifiersOnly = -1

// Modifiers is the canonical modifier set. Function is a separate flag from the
// four standard modifiers because the Carbon registration encoding has no bit
// for it; it must never be aliased onto another modifier.
type Modifiers uint8

const (
	ModControl Modifiers = 1 << iota
	ModOption
	ModShift
	ModCommand
	ModFunction
)

// Shortcut describes one configured gesture. Immutable once handed to Register.
type Shortcut struct {
	KeyCode   int
	Modifiers Modifiers
}

// CGEvent/NSEvent device-independent modifier flags.
const (
	eventFlagShift    = 1 << 17
	eventFlagControl  = 1 << 18
	eventFlagOption   = 1 << 19
	eventFlagCommand  = 1 << 20
	eventFlagFunction = 1 << 23
)

// Carbon modifier flags (RegisterEventHotKey encoding).
const (
	carbonCmdKey     = 0x0100
	carbonShiftKey   = 0x0200
	carbonOptionKey  = 0x0800
	carbonControlKey = 0x1000
)

// FromEventFlags maps the CGEvent/NSEvent flag encoding to the canonical set.
// This is the encoding raw tap events and persisted settings use.
func FromEventFlags(flags uint64) Modifiers {
	var m Modifiers
	if flags&eventFlagControl != 0 {
		m |= ModControl
	}
	if flags&eventFlagOption != 0 {
		m |= ModOption
	}
	if flags&eventFlagShift != 0 {
		m |= ModShift
	}
	if flags&eventFlagCommand != 0 {
		m |= ModCommand
	}
	if flags&eventFlagFunction != 0 {
		m |= ModFunction
	}
	return m
}

// FromCarbonFlags maps the Carbon hotkey registration encoding to the same
// canonical set, so equality checks never depend on which API produced the
// flags. Carbon cannot express Function.
func FromCarbonFlags(flags uint32) Modifiers {
	var m Modifiers
	if flags&carbonControlKey != 0 {
		m |= ModControl
	}
	if flags&carbonOptionKey != 0 {
		m |= ModOption
	}
	if flags&carbonShiftKey != 0 {
		m |= ModShift
	}
	if flags&carbonCmdKey != 0 {
		m |= ModCommand
	}
	return m
}

// CarbonFlags converts the canonical set back to the Carbon encoding.
// Function is dropped; gestures that need it never reach the Carbon backend
// (see RequiresEventTap).
func (m Modifiers) CarbonFlags() uint32 {
	var flags uint32
	if m&ModControl != 0 {
		flags |= carbonControlKey
	}
	if m&ModOption != 0 {
		flags |= carbonOptionKey
	}
	if m&ModShift != 0 {
		flags |= carbonShiftKey
	}
	if m&ModCommand != 0 {
		flags |= carbonCmdKey
	}
	return flags
}

// Contains reports whether m includes every modifier in other.
func (m Modifiers) Contains(other Modifiers) bool {
	return m&other == other
}

func (m Modifiers) IsEmpty() bool { return m == 0 }

// String renders the set in canonical order: ⌃ ⌥ ⇧ ⌘, then Fn.
func (m Modifiers) String() string {
	var b strings.Builder
	if m&ModControl != 0 {
		b.WriteString("⌃")
	}
	if m&ModOption != 0 {
		b.WriteString("⌥")
	}
	if m&ModShift != 0 {
		b.WriteString("⇧")
	}
	if m&ModCommand != 0 {
		b.WriteString("⌘")
	}
	if m&ModFunction != 0 {
		if b.Len() > 0 {
			b.WriteString("+")
		}
		b.WriteString("Fn")
	}
	return b.String()
}

// IsModifiersOnly reports whether the gesture has no ordinary key.
func (s Shortcut) IsModifiersOnly() bool {
	return s.KeyCode == KeyModifiersOnly
}

// RequiresEventTap reports whether the gesture can only be observed through
// the privileged event tap. Modifiers-only gestures need flagsChanged events
// and Fn is invisible to the Carbon hotkey API, so both force the tap; plain
// key+modifier shortcuts can use the cheaper non-privileged backend.
func (s Shortcut) RequiresEventTap() bool {
	return s.IsModifiersOnly() || s.Modifiers&ModFunction != 0
}

// Validate enforces the one structural invariant: a modifiers-only gesture
// must name at least one modifier.
func (s Shortcut) Validate() error {
	if s.IsModifiersOnly() && s.Modifiers.IsEmpty() {
		return fmt.Errorf("modifiers-only shortcut with empty modifier set")
	}
	return nil
}

// Describe produces the canonical human-readable form, independent of the
// order modifiers were pressed: "⌃⇧Space", "⌘+Fn+D", "⌥⌘" (modifiers-only).
func (s Shortcut) Describe() string {
	mods := s.Modifiers.String()
	if s.IsModifiersOnly() {
		return mods
	}
	name := KeyName(s.KeyCode)
	if s.Modifiers&ModFunction != 0 {
		return mods + "+" + name
	}
	return mods + name
}
