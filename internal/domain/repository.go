package domain

import "context"

// ConfigRepository is a secondary port holding the raw configuration entries.
// Implementations must be safe for concurrent use.
type ConfigRepository interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Entries() map[string]string
}

// WindowController is a secondary port for the application window.
// Errors mean the handle could not be located or manipulated.
type WindowController interface {
	Show() error
	Focus() error
	Hide() error
}

// ListeningNotifier surfaces the capture toggle intent to the frontend,
// which owns the actual start and stop of capture.
type ListeningNotifier interface {
	ToggleListening()
}

// Terminator ends the process.
type Terminator interface {
	Exit()
}

// PermissionChecker asks the host for microphone access.
type PermissionChecker interface {
	RequestMicrophone(ctx context.Context) (bool, error)
}
