//go:build darwin

package hotkey

// Exported tap trampoline. Kept in its own file because cgo forbids C
// definitions in the preamble of any file that exports Go functions.

/*
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"

	"github.com/voxtray/voxtray/internal/shortcut"
)

//export goTapEvent
func goTapEvent(handle C.uintptr_t, kind C.int, keycode C.int64_t, flags C.uint64_t, autorepeat C.int) {
	src, ok := cgo.Handle(handle).Value().(*tapSource)
	if !ok || src.deliver == nil {
		return
	}
	src.deliver(RawKeyEvent{
		Kind:       EventKind(kind),
		KeyCode:    int(keycode),
		Modifiers:  shortcut.FromEventFlags(uint64(flags)),
		AutoRepeat: autorepeat != 0,
	})
}
