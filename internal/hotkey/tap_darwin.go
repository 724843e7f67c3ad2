//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>
#include <stdlib.h>
#include <unistd.h>

typedef struct {
    CFMachPortRef tap;
    CFRunLoopSourceRef source;
    CFRunLoopRef runLoop;
    uintptr_t handle;
    volatile int running;
} TapContext;

extern void goTapEvent(uintptr_t handle, int kind, int64_t keycode, uint64_t flags, int autorepeat);

static CGEventRef tapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
    TapContext *ctx = (TapContext *)refcon;
    (void)proxy;

    // The OS disables a tap whose callback overruns its time budget (or on
    // certain secure-input transitions). Re-enable immediately, before any
    // dispatch, so an externally disabled hook never stays dead.
    if (type == kCGEventTapDisabledByTimeout || type == kCGEventTapDisabledByUserInput) {
        if (ctx != NULL && ctx->tap != NULL) {
            CGEventTapEnable(ctx->tap, true);
        }
        return event;
    }

    int kind;
    switch (type) {
    case kCGEventKeyDown:
        kind = 0;
        break;
    case kCGEventKeyUp:
        kind = 1;
        break;
    case kCGEventFlagsChanged:
        kind = 2;
        break;
    default:
        return event;
    }

    int64_t keycode = CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
    int autorepeat = (int)CGEventGetIntegerValueField(event, kCGKeyboardEventAutorepeat);
    goTapEvent(ctx->handle, kind, keycode, (uint64_t)CGEventGetFlags(event), autorepeat);

    return event;
}

static TapContext* tapOpen(uintptr_t handle) {
    TapContext *ctx = (TapContext *)calloc(1, sizeof(TapContext));
    if (ctx == NULL) {
        return NULL;
    }
    ctx->handle = handle;

    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown) |
                       CGEventMaskBit(kCGEventKeyUp) |
                       CGEventMaskBit(kCGEventFlagsChanged);

    // Listen-only: we observe, never modify or swallow events.
    ctx->tap = CGEventTapCreate(
        kCGSessionEventTap,
        kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly,
        mask,
        tapCallback,
        ctx
    );
    if (ctx->tap == NULL) {
        free(ctx);
        return NULL;
    }

    ctx->source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, ctx->tap, 0);
    if (ctx->source == NULL) {
        CFRelease(ctx->tap);
        free(ctx);
        return NULL;
    }

    return ctx;
}

// tapRun blocks running the tap's run loop; called from a dedicated thread.
static void tapRun(TapContext *ctx) {
    ctx->runLoop = CFRunLoopGetCurrent();
    CFRunLoopAddSource(ctx->runLoop, ctx->source, kCFRunLoopCommonModes);
    CGEventTapEnable(ctx->tap, true);
    ctx->running = 1;
    CFRunLoopRun();
    ctx->running = 0;
    ctx->runLoop = NULL;
}

static int tapIsRunning(TapContext *ctx) {
    return ctx->running;
}

static void tapSetEnabled(TapContext *ctx, int enabled) {
    if (ctx->tap != NULL) {
        CGEventTapEnable(ctx->tap, enabled != 0);
    }
}

static void tapClose(TapContext *ctx) {
    if (ctx == NULL) {
        return;
    }
    tapSetEnabled(ctx, 0);
    if (ctx->runLoop != NULL) {
        CFRunLoopStop(ctx->runLoop);
    }
    for (int i = 0; i < 100 && ctx->running; i++) {
        usleep(10000);
    }
    if (ctx->source != NULL) {
        CFRelease(ctx->source);
    }
    if (ctx->tap != NULL) {
        CFRelease(ctx->tap);
    }
    free(ctx);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"runtime/cgo"
	"time"

	"github.com/voxtray/voxtray/internal/shortcut"
)

// newPlatformSource routes modifiers-only and Fn gestures to the privileged
// tap; everything else can use the cheaper system hotkey registration.
func newPlatformSource(sc shortcut.Shortcut) (Source, error) {
	if sc.RequiresEventTap() {
		return newTapSource(), nil
	}
	return newSystemHotkeySource(sc)
}

// tapSource observes the session-wide event stream through a listen-only
// CGEventTap. The tap callback bridges back into Go through a cgo.Handle
// stored in the tap's context struct; resolving it here keeps one tap per
// source instance with no process-wide globals.
type tapSource struct {
	ctx     *C.TapContext
	handle  cgo.Handle
	deliver func(RawKeyEvent)
}

func newTapSource() Source {
	return &tapSource{}
}

func (t *tapSource) Open(deliver func(RawKeyEvent)) error {
	t.deliver = deliver
	t.handle = cgo.NewHandle(t)

	ctx := C.tapOpen(C.uintptr_t(t.handle))
	if ctx == nil {
		t.handle.Delete()
		return fmt.Errorf("event tap creation refused (missing accessibility permission?)")
	}
	t.ctx = ctx

	// The run loop needs a thread it can own for the life of the tap.
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		C.tapRun(ctx)
	}()

	for i := 0; i < 100; i++ {
		if C.tapIsRunning(ctx) == 1 {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.closeTap()
	return fmt.Errorf("event tap run loop did not start")
}

func (t *tapSource) SetEnabled(enabled bool) error {
	if t.ctx == nil {
		return fmt.Errorf("event tap not open")
	}
	v := C.int(0)
	if enabled {
		v = 1
	}
	C.tapSetEnabled(t.ctx, v)
	return nil
}

func (t *tapSource) Close() error {
	t.closeTap()
	return nil
}

func (t *tapSource) closeTap() {
	if t.ctx != nil {
		C.tapClose(t.ctx)
		t.ctx = nil
	}
	if t.handle != 0 {
		t.handle.Delete()
		t.handle = 0
	}
}

func (t *tapSource) Backend() string { return "event_tap" }
