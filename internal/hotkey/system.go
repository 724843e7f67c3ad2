package hotkey

import (
	"fmt"

	ghotkey "golang.design/x/hotkey"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// systemHotkeySource serves ordinary key+modifier gestures through the OS
// hotkey registration API (Carbon/X11/Win32 via golang.design/x/hotkey). No
// privileged permission, no event tap; press/release pairs are translated
// into the same RawKeyEvent stream the tap produces so one classifier serves
// both backends.
type systemHotkeySource struct {
	sc   shortcut.Shortcut
	key  ghotkey.Key
	mods []ghotkey.Modifier

	deliver func(RawKeyEvent)
	hk      *ghotkey.Hotkey
	stop    chan struct{}
}

func newSystemHotkeySource(sc shortcut.Shortcut) (Source, error) {
	if sc.RequiresEventTap() {
		return nil, fmt.Errorf("%s needs the event tap backend", sc.Describe())
	}
	key, ok := systemKeys[sc.KeyCode]
	if !ok {
		return nil, fmt.Errorf("key %s not supported by the system hotkey backend", shortcut.KeyName(sc.KeyCode))
	}
	return &systemHotkeySource{
		sc:   sc,
		key:  key,
		mods: systemModifiers(sc.Modifiers),
	}, nil
}

func (s *systemHotkeySource) Open(deliver func(RawKeyEvent)) error {
	s.deliver = deliver
	return s.start()
}

func (s *systemHotkeySource) start() error {
	hk := ghotkey.New(s.mods, s.key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register system hotkey: %w", err)
	}
	s.hk = hk
	s.stop = make(chan struct{})
	go s.pump(hk, s.stop)
	return nil
}

// pump translates the backend's press/release channels into raw events. The
// registration API already resolved the chord, so the synthesized events
// carry the exact configured key and modifier set and never auto-repeat.
func (s *systemHotkeySource) pump(hk *ghotkey.Hotkey, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-hk.Keydown():
			s.deliver(RawKeyEvent{Kind: KeyDown, KeyCode: s.sc.KeyCode, Modifiers: s.sc.Modifiers})
		case <-hk.Keyup():
			s.deliver(RawKeyEvent{Kind: KeyUp, KeyCode: s.sc.KeyCode, Modifiers: s.sc.Modifiers})
		}
	}
}

func (s *systemHotkeySource) release() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.hk != nil {
		s.hk.Unregister()
		s.hk = nil
	}
}

// SetEnabled suspends by unregistering and resumes with a fresh
// registration; the OS hotkey API has no disable-in-place.
func (s *systemHotkeySource) SetEnabled(enabled bool) error {
	if !enabled {
		s.release()
		return nil
	}
	if s.hk != nil {
		return nil
	}
	return s.start()
}

func (s *systemHotkeySource) Close() error {
	s.release()
	return nil
}

func (s *systemHotkeySource) Backend() string { return "system_hotkey" }

// systemKeys maps the macOS virtual key codes the settings layer speaks to
// the backend's portable key constants.
var systemKeys = map[int]ghotkey.Key{
	0:  ghotkey.KeyA,
	1:  ghotkey.KeyS,
	2:  ghotkey.KeyD,
	3:  ghotkey.KeyF,
	4:  ghotkey.KeyH,
	5:  ghotkey.KeyG,
	6:  ghotkey.KeyZ,
	7:  ghotkey.KeyX,
	8:  ghotkey.KeyC,
	9:  ghotkey.KeyV,
	11: ghotkey.KeyB,
	12: ghotkey.KeyQ,
	13: ghotkey.KeyW,
	14: ghotkey.KeyE,
	15: ghotkey.KeyR,
	16: ghotkey.KeyY,
	17: ghotkey.KeyT,
	18: ghotkey.Key1,
	19: ghotkey.Key2,
	20: ghotkey.Key3,
	21: ghotkey.Key4,
	22: ghotkey.Key6,
	23: ghotkey.Key5,
	25: ghotkey.Key9,
	26: ghotkey.Key7,
	28: ghotkey.Key8,
	29: ghotkey.Key0,
	31: ghotkey.KeyO,
	32: ghotkey.KeyU,
	34: ghotkey.KeyI,
	35: ghotkey.KeyP,
	36: ghotkey.KeyReturn,
	37: ghotkey.KeyL,
	38: ghotkey.KeyJ,
	40: ghotkey.KeyK,
	45: ghotkey.KeyN,
	46: ghotkey.KeyM,
	48: ghotkey.KeyTab,
	49: ghotkey.KeySpace,
	51: ghotkey.KeyDelete,
	53: ghotkey.KeyEscape,

	96:  ghotkey.KeyF5,
	97:  ghotkey.KeyF6,
	98:  ghotkey.KeyF7,
	99:  ghotkey.KeyF3,
	100: ghotkey.KeyF8,
	101: ghotkey.KeyF9,
	103: ghotkey.KeyF11,
	105: ghotkey.KeyF13,
	106: ghotkey.KeyF16,
	107: ghotkey.KeyF14,
	109: ghotkey.KeyF10,
	111: ghotkey.KeyF12,
	113: ghotkey.KeyF15,
	118: ghotkey.KeyF4,
	120: ghotkey.KeyF2,
	122: ghotkey.KeyF1,
	123: ghotkey.KeyLeft,
	124: ghotkey.KeyRight,
	125: ghotkey.KeyDown,
	126: ghotkey.KeyUp,
}
