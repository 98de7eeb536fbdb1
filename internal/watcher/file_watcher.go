package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// skippedDirs are never watched.
var skippedDirs = map[string]bool{
	".git":       true,
	".classmeta": true,
}

// fileWatcher implements FileWatcher interface.
type fileWatcher struct {
	watcher       *fsnotify.Watcher
	extensions    map[string]bool      // Extensions to monitor (.cpp, .h, etc.)
	debounceTime  time.Duration        // Quiet period before firing callback
	logger        *zap.Logger          // Receives watch errors
	callback      func(files []string) // Callback to invoke with changed files
	ctx           context.Context      // Context for lifecycle management
	cancel        context.CancelFunc   // Cancel function for internal context
	accumulated   map[string]bool      // Accumulated file changes
	accumulatedMu sync.Mutex           // Protects accumulated map
	debounceTimer *time.Timer          // Current debounce timer
	timerMu       sync.Mutex           // Protects debounce timer
	stopOnce      sync.Once            // Ensures Stop() is idempotent
	doneCh        chan struct{}        // Signals watch goroutine has finished
}

// Option configures a file watcher.
type Option func(*fileWatcher)

// WithDebounce sets the quiet period before changes are reported.
func WithDebounce(d time.Duration) Option {
	return func(fw *fileWatcher) {
		if d > 0 {
			fw.debounceTime = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(logger *zap.Logger) Option {
	return func(fw *fileWatcher) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWatcher creates a new file watcher for the given paths.
// paths: directories to watch recursively, or files whose directory is watched
// extensions: file extensions to monitor (e.g., []string{".cpp", ".h"})
func NewFileWatcher(paths []string, extensions []string, opts ...Option) (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}

	fw := &fileWatcher{
		watcher:      watcher,
		extensions:   extMap,
		debounceTime: DefaultDebounce,
		logger:       zap.NewNop(),
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fw)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		if !info.IsDir() {
			err = watcher.Add(filepath.Dir(path))
		} else {
			err = fw.addDirectoriesRecursively(path)
		}
		if err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return fw, nil
}

// Start begins watching for file changes.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	fw.callback = callback
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch()
	return nil
}

// Stop stops the file watcher.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			// Wait for goroutine to finish (only if Start() was called)
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}

		err = fw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (fw *fileWatcher) watch() {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-fw.ctx.Done():
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Watch directories created after start
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addDirectoriesRecursively(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.accumulatedMu.Lock()
			fw.accumulated[event.Name] = true
			fw.accumulatedMu.Unlock()

			fw.resetDebounceTimer(fireCh)

		case <-fireCh:
			fw.flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// flush hands the accumulated changes, sorted, to the callback.
func (fw *fileWatcher) flush() {
	fw.accumulatedMu.Lock()
	if len(fw.accumulated) == 0 {
		fw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(fw.accumulated))
	for file := range fw.accumulated {
		files = append(files, file)
	}
	fw.accumulated = make(map[string]bool)
	fw.accumulatedMu.Unlock()

	slices.Sort(files)
	if fw.callback != nil {
		fw.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (fw *fileWatcher) resetDebounceTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (fw *fileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// shouldProcessEvent checks if an event should be processed based on extension.
func (fw *fileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Renames surface as Rename on the old name and Create on the new one.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	return fw.extensions[strings.ToLower(filepath.Ext(event.Name))]
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (fw *fileWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			fw.logger.Warn("error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if !info.IsDir() {
			return nil
		}
		if path != rootPath && skippedDirs[info.Name()] {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}
