package process

import (
	"os"

	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
)

// OSTerminator implements domain.Terminator by exiting the process
// immediately. Deferred functions do not run.
type OSTerminator struct {
	exit func(code int)
}

// NewOSTerminator creates a terminator calling os.Exit(0).
func NewOSTerminator() *OSTerminator {
	return &OSTerminator{exit: os.Exit}
}

// Exit ends the process.
func (t *OSTerminator) Exit() {
	logging.Infof("quit requested, exiting")
	t.exit(0)
}

var _ domain.Terminator = (*OSTerminator)(nil)
