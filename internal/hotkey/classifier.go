package hotkey

import "github.com/voxtray/voxtray/internal/shortcut"

// classifier decides, one event at a time, when the registered gesture begins
// and ends. It holds the match state for both gesture styles; the engine
// zeroes it on every lifecycle transition so no partial match survives a
// register/unregister/suspend/resume boundary.
type classifier struct {
	target shortcut.Shortcut

	// Ordinary key+modifier gestures.
	triggered bool

	// Modifiers-only gestures: candidateActive is the provisional belief
	// that a tap is in progress; cancelledByKey records that an ordinary key
	// was pressed meanwhile. The cancellation decision is deferred until the
	// modifiers fully release, which is what tells "⌘ alone" apart from
	// "⌘+C" even though both begin identically.
	candidateActive bool
	cancelledByKey  bool
}

func newClassifier(target shortcut.Shortcut) *classifier {
	return &classifier{target: target}
}

func (c *classifier) reset() {
	c.triggered = false
	c.candidateActive = false
	c.cancelledByKey = false
}

// feed consumes one event and reports which signals to emit. When both are
// true the gesture was a clean modifier tap: down fires immediately followed
// by up, never as separately timed signals.
func (c *classifier) feed(ev RawKeyEvent) (down, up bool) {
	// Hardware auto-repeat can never start or continue a match.
	if ev.Kind == KeyDown && ev.AutoRepeat {
		return false, false
	}
	if c.target.IsModifiersOnly() {
		return c.feedModifiersOnly(ev)
	}
	return c.feedNormal(ev)
}

func (c *classifier) feedNormal(ev RawKeyEvent) (down, up bool) {
	switch ev.Kind {
	case KeyDown:
		// Exact modifier equality to trigger; re-matching while already
		// triggered is a no-op so repeats that slip past the auto-repeat
		// filter cannot double-fire.
		if !c.triggered && ev.KeyCode == c.target.KeyCode && ev.Modifiers == c.target.Modifiers {
			c.triggered = true
			return true, false
		}
	case KeyUp:
		if c.triggered && ev.KeyCode == c.target.KeyCode {
			c.triggered = false
			return false, true
		}
	case FlagsChanged:
		// Releasing a modifier while the key is still held releases the
		// whole gesture. Required for push-to-talk release.
		if c.triggered && ev.Modifiers != c.target.Modifiers {
			c.triggered = false
			return false, true
		}
	}
	return false, false
}

func (c *classifier) feedModifiersOnly(ev RawKeyEvent) (down, up bool) {
	target := c.target.Modifiers

	switch ev.Kind {
	case FlagsChanged:
		if !c.candidateActive {
			// Entry requires exact set equality; superset reasoning only
			// applies once a candidate is live.
			if ev.Modifiers == target {
				c.candidateActive = true
				c.cancelledByKey = false
			}
			return false, false
		}
		switch {
		case ev.Modifiers.IsEmpty():
			fire := !c.cancelledByKey
			c.candidateActive = false
			if fire {
				return true, true
			}
		case ev.Modifiers.Contains(target):
			// Superset or back to the exact set: the tap may still complete.
		default:
			// Lost a required modifier without releasing everything: cancel.
			c.candidateActive = false
		}
	case KeyDown:
		if c.candidateActive {
			c.cancelledByKey = true
		}
	case KeyUp:
		// KeyUp never affects modifiers-only state.
	}
	return false, false
}
