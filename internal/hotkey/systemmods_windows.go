//go:build windows

package hotkey

import (
	ghotkey "golang.design/x/hotkey"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// systemModifiers maps the canonical set onto Win32 modifiers: Option is Alt,
// Command is the Windows key.
func systemModifiers(m shortcut.Modifiers) []ghotkey.Modifier {
	var mods []ghotkey.Modifier
	if m&shortcut.ModControl != 0 {
		mods = append(mods, ghotkey.ModCtrl)
	}
	if m&shortcut.ModOption != 0 {
		mods = append(mods, ghotkey.ModAlt)
	}
	if m&shortcut.ModShift != 0 {
		mods = append(mods, ghotkey.ModShift)
	}
	if m&shortcut.ModCommand != 0 {
		mods = append(mods, ghotkey.ModWin)
	}
	return mods
}
