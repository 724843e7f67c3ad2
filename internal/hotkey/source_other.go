//go:build !darwin

package hotkey

import (
	"fmt"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// Only macOS has an event tap adapter; elsewhere modifiers-only and Fn
// gestures cannot be observed and registration fails up front.
func newPlatformSource(sc shortcut.Shortcut) (Source, error) {
	if sc.RequiresEventTap() {
		return nil, fmt.Errorf("%s requires the macOS event tap", sc.Describe())
	}
	return newSystemHotkeySource(sc)
}
