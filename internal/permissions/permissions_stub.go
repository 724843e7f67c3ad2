//go:build !darwin

package permissions

// EnsurePermissions is a no-op on non-macOS platforms.
func EnsurePermissions() error {
	return nil
}

type openGate struct{}

// NewGate returns a gate that always grants: only macOS guards global input
// observation behind a privacy permission.
func NewGate() Gate {
	return openGate{}
}

func (openGate) Granted() bool { return true }
func (openGate) Request() bool { return true }
