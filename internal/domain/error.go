package domain

import "errors"

// ValidationKind identifies which chunk check failed.
type ValidationKind int

const (
	EmptyData ValidationKind = iota + 1
	ZeroDuration
	MissingFormat
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyData:
		return "EmptyData"
	case ZeroDuration:
		return "ZeroDuration"
	case MissingFormat:
		return "MissingFormat"
	default:
		return "unknown"
	}
}

// ValidationError reports the first failed chunk check.
type ValidationError struct {
	Kind ValidationKind
	msg  string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Is matches any ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrEmptyData indicates that the chunk payload is empty.
	ErrEmptyData = &ValidationError{Kind: EmptyData, msg: "Audio data is empty"}

	// ErrZeroDuration indicates that the chunk duration is zero.
	ErrZeroDuration = &ValidationError{Kind: ZeroDuration, msg: "Duration must be greater than 0"}

	// ErrMissingFormat indicates that no encoding was named.
	ErrMissingFormat = &ValidationError{Kind: MissingFormat, msg: "Format must be specified"}

	// ErrWindowUnavailable indicates that the window handle is gone.
	ErrWindowUnavailable = errors.New("window is not available")

	// ErrTrayExited indicates an event arrived after quit was handled.
	ErrTrayExited = errors.New("application is exiting")

	// ErrTrayStopped indicates the tray loop is no longer running.
	ErrTrayStopped = errors.New("tray controller is not running")
)
