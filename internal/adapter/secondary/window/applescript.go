package window

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"creeper-desktop/internal/domain"
)

// AppleScriptController implements domain.WindowController using macOS osascript.
// This is a secondary adapter.
type AppleScriptController struct {
	appName string
	run     func(script string) ([]byte, error)
}

// NewAppleScriptController creates a controller for the named application process.
func NewAppleScriptController(appName string) *AppleScriptController {
	return &AppleScriptController{appName: appName, run: runOsascript}
}

func runOsascript(script string) ([]byte, error) {
	return exec.Command("osascript", "-e", script).CombinedOutput()
}

// Show makes the application process visible.
func (a *AppleScriptController) Show() error {
	return a.exec(fmt.Sprintf(`tell application "System Events" to set visible of process %q to true`, a.appName))
}

// Focus brings the application to the front.
func (a *AppleScriptController) Focus() error {
	return a.exec(fmt.Sprintf(`tell application %q to activate`, a.appName))
}

// Hide hides the application without quitting it.
func (a *AppleScriptController) Hide() error {
	return a.exec(fmt.Sprintf(`tell application "System Events" to set visible of process %q to false`, a.appName))
}

func (a *AppleScriptController) exec(script string) error {
	output, err := a.run(script)
	if err == nil {
		return nil
	}
	// -1728: the process or window could not be resolved.
	if strings.Contains(string(output), "-1728") {
		return fmt.Errorf("%w: %s", domain.ErrWindowUnavailable, a.appName)
	}
	return errors.Join(fmt.Errorf("osascript failed: %w", err), errors.New(strings.TrimSpace(string(output))))
}

var _ domain.WindowController = (*AppleScriptController)(nil)
