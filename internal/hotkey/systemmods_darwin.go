//go:build darwin

package hotkey

import (
	ghotkey "golang.design/x/hotkey"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// systemModifiers maps the canonical set onto the Carbon registration
// modifiers. Fn never reaches this backend (RequiresEventTap forces the tap).
func systemModifiers(m shortcut.Modifiers) []ghotkey.Modifier {
	var mods []ghotkey.Modifier
	if m&shortcut.ModControl != 0 {
		mods = append(mods, ghotkey.ModCtrl)
	}
	if m&shortcut.ModOption != 0 {
		mods = append(mods, ghotkey.ModOption)
	}
	if m&shortcut.ModShift != 0 {
		mods = append(mods, ghotkey.ModShift)
	}
	if m&shortcut.ModCommand != 0 {
		mods = append(mods, ghotkey.ModCmd)
	}
	return mods
}
