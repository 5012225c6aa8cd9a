package domain

import "fmt"

// TrayEvent is an input from the tray, its menu, or the window frame.
type TrayEvent string

const (
	EventTrayActivate         TrayEvent = "activate"
	EventMenuShow             TrayEvent = "show"
	EventMenuToggle           TrayEvent = "toggle"
	EventMenuQuit             TrayEvent = "quit"
	EventWindowCloseRequested TrayEvent = "close"
)

// TrayEvents lists every event the controller accepts.
var TrayEvents = []TrayEvent{
	EventTrayActivate,
	EventMenuShow,
	EventMenuToggle,
	EventMenuQuit,
	EventWindowCloseRequested,
}

// ParseTrayEvent maps a name like "quit" to its event.
func ParseTrayEvent(name string) (TrayEvent, error) {
	for _, ev := range TrayEvents {
		if string(ev) == name {
			return ev, nil
		}
	}
	return "", fmt.Errorf("unknown tray event: %s", name)
}

// ActionType is a side effect produced by the tray state machine.
type ActionType string

const (
	ActionShowWindow      ActionType = "ShowWindow"
	ActionFocusWindow     ActionType = "FocusWindow"
	ActionHideWindow      ActionType = "HideWindow"
	ActionPreventClose    ActionType = "PreventClose"
	ActionToggleListening ActionType = "ToggleListening"
	ActionExit            ActionType = "Exit"
)

// WindowState is the controller's view of the window.
// The real visibility is owned by the window adapter.
type WindowState int

const (
	WindowHidden WindowState = iota
	WindowShown
)

func (s WindowState) String() string {
	switch s {
	case WindowHidden:
		return "hidden"
	case WindowShown:
		return "shown"
	default:
		return "unknown"
	}
}

// TrayState is the state threaded through HandleTrayEvent.
type TrayState struct {
	Window WindowState
	Exited bool
}

// HandleTrayEvent is a pure function returning the next state and the
// actions to be executed for ev. Closing the window hides it; only quit exits.
func HandleTrayEvent(state TrayState, ev TrayEvent) (TrayState, []ActionType, error) {
	if state.Exited {
		return state, nil, ErrTrayExited
	}

	switch ev {
	case EventTrayActivate, EventMenuShow:
		return TrayState{Window: WindowShown}, []ActionType{ActionShowWindow, ActionFocusWindow}, nil
	case EventMenuToggle:
		return TrayState{Window: WindowShown}, []ActionType{ActionShowWindow, ActionFocusWindow, ActionToggleListening}, nil
	case EventMenuQuit:
		return TrayState{Window: state.Window, Exited: true}, []ActionType{ActionExit}, nil
	case EventWindowCloseRequested:
		return TrayState{Window: WindowHidden}, []ActionType{ActionPreventClose, ActionHideWindow}, nil
	default:
		return state, nil, fmt.Errorf("unknown tray event: %s", ev)
	}
}
