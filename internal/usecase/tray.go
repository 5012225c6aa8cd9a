package usecase

import (
	"context"
	"fmt"
	"sync"

	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
)

// TrayUseCase is the primary port for tray, menu and window events.
// Events are handled one at a time in delivery order by the loop started
// with Start; Handle blocks until its event has been processed.
type TrayUseCase interface {
	Start(ctx context.Context)
	Handle(ctx context.Context, ev domain.TrayEvent) error
	State() domain.TrayState
}

// trayInteractor runs the tray state machine and executes its actions
// through secondary ports.
type trayInteractor struct {
	window   domain.WindowController
	notifier domain.ListeningNotifier
	term     domain.Terminator

	mu    sync.RWMutex
	state domain.TrayState

	eventCh chan trayRequest
	done    chan struct{}
}

type trayRequest struct {
	event    domain.TrayEvent
	resultCh chan error
}

// NewTrayUseCase creates the tray controller. initial is the window state
// the host created the window in.
func NewTrayUseCase(
	window domain.WindowController,
	notifier domain.ListeningNotifier,
	term domain.Terminator,
	initial domain.WindowState,
) TrayUseCase {
	return &trayInteractor{
		window:   window,
		notifier: notifier,
		term:     term,
		state:    domain.TrayState{Window: initial},
		eventCh:  make(chan trayRequest),
		done:     make(chan struct{}),
	}
}

// Start launches the event loop until ctx is cancelled.
func (t *trayInteractor) Start(ctx context.Context) {
	go t.loop(ctx)
}

func (t *trayInteractor) loop(ctx context.Context) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-t.eventCh:
			req.resultCh <- t.process(req.event)
		}
	}
}

func (t *trayInteractor) process(ev domain.TrayEvent) error {
	t.mu.RLock()
	current := t.state
	t.mu.RUnlock()

	next, actions, err := domain.HandleTrayEvent(current, ev)
	if err != nil {
		return err
	}

	// Exit does not return in production, so the terminal state must be
	// recorded before the actions run.
	if next.Exited {
		t.setState(next)
	}

	for _, action := range actions {
		if err := t.execute(action); err != nil {
			logging.Errorf("tray %s: %s failed: %v", ev, action, err)
			return fmt.Errorf("tray %s: %s: %w", ev, action, err)
		}
	}

	t.setState(next)
	logging.Debugf("tray %s -> window %s", ev, next.Window)
	return nil
}

func (t *trayInteractor) execute(action domain.ActionType) error {
	switch action {
	case domain.ActionShowWindow:
		return t.window.Show()
	case domain.ActionFocusWindow:
		return t.window.Focus()
	case domain.ActionHideWindow:
		return t.window.Hide()
	case domain.ActionPreventClose:
		logging.Tracef("window close suppressed")
		return nil
	case domain.ActionToggleListening:
		t.notifier.ToggleListening()
		return nil
	case domain.ActionExit:
		t.term.Exit()
		return nil
	default:
		return fmt.Errorf("unknown action %s", action)
	}
}

func (t *trayInteractor) setState(s domain.TrayState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Handle delivers ev to the loop and returns the outcome of handling it.
// Window failures are returned as is so they stay observable.
func (t *trayInteractor) Handle(ctx context.Context, ev domain.TrayEvent) error {
	req := trayRequest{event: ev, resultCh: make(chan error, 1)}
	select {
	case t.eventCh <- req:
	case <-t.done:
		return domain.ErrTrayStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the controller's current view.
func (t *trayInteractor) State() domain.TrayState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
