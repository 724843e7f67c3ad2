//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation -framework Cocoa
#import <AVFoundation/AVFoundation.h>
#import <Cocoa/Cocoa.h>

int checkMicrophonePermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
    return (int)status;
}

void requestMicrophonePermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}

int checkAccessibilityPermission() {
    return AXIsProcessTrusted() ? 1 : 0;
}

int requestAccessibilityPermission() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "fmt"

const (
	PermissionNotDetermined = 0
	PermissionRestricted    = 1
	PermissionDenied        = 2
	PermissionAuthorized    = 3
)

// CheckMicrophone returns the current microphone permission status
func CheckMicrophone() (int, error) {
	status := int(C.checkMicrophonePermission())
	return status, nil
}

// RequestMicrophone triggers the system microphone permission dialog
func RequestMicrophone() error {
	C.requestMicrophonePermission()
	return nil
}

type axGate struct{}

// NewGate returns the accessibility gate used by the hotkey engine.
func NewGate() Gate {
	return axGate{}
}

// Granted probes AXIsProcessTrusted without showing the consent prompt.
func (axGate) Granted() bool {
	return int(C.checkAccessibilityPermission()) == 1
}

// Request shows the accessibility consent prompt on first call and returns
// the final grant state. On denial the user is pointed at the privacy pane;
// granting there only needs Register to be called again, not an app restart.
func (axGate) Request() bool {
	if int(C.requestAccessibilityPermission()) == 1 {
		return true
	}
	fmt.Println("⚠️  Accessibility permission required for the dictation hotkey")
	fmt.Println("   Go to: System Settings → Privacy & Security → Accessibility")
	return false
}

// EnsurePermissions checks and requests the microphone permission needed
// before capture can start. The accessibility permission is the engine's
// concern and goes through the Gate during Register.
func EnsurePermissions() error {
	micStatus, _ := CheckMicrophone()
	if micStatus != PermissionAuthorized {
		fmt.Println("⚠️  Microphone permission required")
		RequestMicrophone()
		return fmt.Errorf("microphone permission not granted")
	}
	return nil
}
