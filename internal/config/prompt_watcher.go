package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher watches configured prompt files for changes and reloads the
// process-wide prompt set when one of them is rewritten on disk.
type PromptWatcher struct {
	mu sync.RWMutex

	cfg   *Config
	files []string

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}

	// Invoked after each successful reload; optional.
	onReload func()
	// Invoked with reload or watch errors; optional.
	onError func(error)

	running bool
}

// NewPromptWatcher creates a watcher over the config's prompt files. Returns
// nil (no watcher) when no prompt files are configured.
func NewPromptWatcher(cfg *Config, debounceDelay time.Duration, onReload func(), onError func(error)) *PromptWatcher {
	files := cfg.PromptFiles()
	if len(files) == 0 {
		return nil
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &PromptWatcher{
		cfg:           cfg,
		files:         files,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		onReload:      onReload,
		onError:       onError,
	}
}

// Start begins watching the prompt files for changes
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	// Watch parent directories rather than the files themselves so editors
	// that replace files via rename are still observed.
	dirs := make(map[string]bool)
	for _, f := range pw.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			pw.cleanupWatcher()
			return fmt.Errorf("failed to watch prompt directory %s: %w", dir, err)
		}
	}

	pw.running = true
	go pw.watchLoop()
	return nil
}

// Stop stops the watcher and releases its resources
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.cleanupWatcher()
	pw.running = false
	return nil
}

// IsRunning reports whether the watcher is active
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.running
}

// WatchedFiles returns the prompt files under watch
func (pw *PromptWatcher) WatchedFiles() []string {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	out := make([]string, len(pw.files))
	copy(out, pw.files)
	return out
}

func (pw *PromptWatcher) cleanupWatcher() {
	if pw.fsWatcher != nil {
		_ = pw.fsWatcher.Close()
	}
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case <-pw.stopChan:
			return
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if pw.isWatchedFile(event.Name) && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pw.scheduleReload()
			}
		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			if pw.onError != nil {
				pw.onError(err)
			}
		}
	}
}

func (pw *PromptWatcher) isWatchedFile(name string) bool {
	clean := filepath.Clean(name)
	for _, f := range pw.files {
		if filepath.Clean(f) == clean {
			return true
		}
	}
	return false
}

// scheduleReload debounces bursts of file events into a single reload
func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, pw.reload)
}

func (pw *PromptWatcher) reload() {
	if err := pw.cfg.ReloadPrompts(); err != nil {
		if pw.onError != nil {
			pw.onError(err)
		}
		return
	}
	if pw.onReload != nil {
		pw.onReload()
	}
}
