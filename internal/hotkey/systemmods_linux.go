//go:build linux

package hotkey

import (
	ghotkey "golang.design/x/hotkey"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// systemModifiers maps the canonical set onto X11 modifier masks: Option is
// Mod1 (Alt), Command is Mod4 (Super).
func systemModifiers(m shortcut.Modifiers) []ghotkey.Modifier {
	var mods []ghotkey.Modifier
	if m&shortcut.ModControl != 0 {
		mods = append(mods, ghotkey.ModCtrl)
	}
	if m&shortcut.ModOption != 0 {
		mods = append(mods, ghotkey.Mod1)
	}
	if m&shortcut.ModShift != 0 {
		mods = append(mods, ghotkey.ModShift)
	}
	if m&shortcut.ModCommand != 0 {
		mods = append(mods, ghotkey.Mod4)
	}
	return mods
}
