package cli

import (
	"context"
	"sync"

	"creeper-desktop/internal/adapter/primary/dispatch"
	"creeper-desktop/internal/adapter/secondary/listening"
	"creeper-desktop/internal/adapter/secondary/permission"
	"creeper-desktop/internal/adapter/secondary/process"
	"creeper-desktop/internal/adapter/secondary/repository"
	"creeper-desktop/internal/adapter/secondary/window"
	"creeper-desktop/internal/config"
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/usecase"
)

// app wires the use cases to their secondary adapters for one process or
// one shell session.
type app struct {
	settings   config.Settings
	dispatcher *dispatch.Dispatcher
	tray       usecase.TrayUseCase
	intents    *listening.ToggleQueue
	memWindow  *window.MemoryWindow

	startOnce sync.Once
}

func newApp(settings config.Settings, term domain.Terminator) *app {
	a := &app{
		settings: settings,
		dispatcher: dispatch.New(
			usecase.NewConfigUseCase(repository.NewMemoryRepository()),
			usecase.NewChunkUseCase(),
			usecase.NewPermissionUseCase(permission.NewAlwaysGranted()),
		),
		intents: listening.NewToggleQueue(),
	}

	initial := domain.WindowShown
	if settings.Window.StartHidden {
		initial = domain.WindowHidden
	}

	var wc domain.WindowController
	switch settings.Window.Backend {
	case config.BackendAppleScript:
		wc = window.NewAppleScriptController(settings.Window.AppName)
	default:
		a.memWindow = window.NewMemoryWindow(initial == domain.WindowShown)
		wc = a.memWindow
	}

	if term == nil {
		term = process.NewOSTerminator()
	}
	a.tray = usecase.NewTrayUseCase(wc, a.intents, term, initial)
	return a
}

// start launches the tray loop once; later calls are no-ops.
func (a *app) start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.tray.Start(ctx)
	})
}

var (
	sessionMu sync.Mutex
	session   *app
)

// currentApp returns the shell session's app, or a fresh one for one-shot
// commands. Config overrides only persist within a shell session.
func currentApp(ctx context.Context) (*app, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if session != nil {
		return session, nil
	}
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	a := newApp(settings, nil)
	a.start(ctx)
	return a, nil
}

func loadSettings() (config.Settings, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Settings{}, err
	}
	return config.Load(cfgPath)
}
