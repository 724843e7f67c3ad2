package permissions

// Gate abstracts the OS privilege required to observe system-wide input
// events. Granted is a silent probe; Request may show the OS consent flow and
// returns the final grant state. Neither ever fails: a denied permission is a
// normal answer, not an error.
type Gate interface {
	Granted() bool
	Request() bool
}
