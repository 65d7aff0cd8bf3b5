package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"dashsearch/internal/domain"
	"dashsearch/internal/eventbus"
)

// TokenWatcher republishes the token whenever the token file changes
type TokenWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	bus      eventbus.EventBus
	onChange func(token string)
	logger   *slog.Logger

	// reloadMu orders reloads, so onChange always ends on the file's last content
	reloadMu sync.Mutex
	mu       sync.Mutex
	current  string

	done chan struct{}
	once sync.Once
}

// WatchTokenFile starts watching path. Each time its content changes, onChange
// (when set) is called with the new token and a TokenChangedEvent is published.
// onChange calls are ordered like the file writes; bus handlers are not.
// The parent directory is watched rather than the file because auth tools
// usually replace the file with a rename.
func WatchTokenFile(path string, bus eventbus.EventBus, logger *slog.Logger, onChange func(token string)) (*TokenWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve token file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create token file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	current, err := ReadTokenFile(abs)
	if err != nil {
		logger.Warn("initial token read failed", "path", abs, "error", err)
	}

	tw := &TokenWatcher{
		path:    abs,
		watcher: watcher,
		bus:      bus,
		onChange: onChange,
		logger:   logger.With("component", "token-watcher"),
		current:  current,
		done:     make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

// Token returns the last token read from the file
func (tw *TokenWatcher) Token() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.current
}

// Close stops the watcher
func (tw *TokenWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		err = tw.watcher.Close()
		<-tw.done
	})
	return err
}

func (tw *TokenWatcher) run() {
	defer close(tw.done)
	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				tw.reload(event.Op)
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("token watcher error", "error", err)
		}
	}
}

func (tw *TokenWatcher) reload(op fsnotify.Op) {
	tw.reloadMu.Lock()
	defer tw.reloadMu.Unlock()

	token, err := ReadTokenFile(tw.path)
	if err != nil {
		tw.logger.Warn("failed to reload token", "path", tw.path, "error", err)
		return
	}

	tw.mu.Lock()
	changed := token != tw.current
	tw.current = token
	tw.mu.Unlock()

	if !changed {
		return
	}
	tw.logger.Info("token file changed", "op", op.String(), "empty", token == "")
	if tw.onChange != nil {
		tw.onChange(token)
	}
	tw.bus.Publish(domain.TokenChangedEvent{Token: token})
}
