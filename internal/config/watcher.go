package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"creeper-desktop/internal/logging"
)

// Watcher reloads the settings file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(Settings)
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher that calls onChange with each successfully
// reloaded Settings.
func NewWatcher(path string, onChange func(Settings)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so editors that
// replace the file are picked up.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	name := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warnf("settings watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.Warnf("settings reload failed, keeping previous: %v", err)
		return
	}
	logging.Infof("settings reloaded from %s", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}

// ApplyLogLevel sets the logger from cfg. Invalid levels were rejected by
// Normalize, so errors are ignored here.
func ApplyLogLevel(cfg Settings) {
	if level, _, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		logging.SetLevel(level)
	}
}
