package stamper

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rbum/devtools/internal/headers"
	"go.uber.org/zap"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce delays processing until a file has been quiet this long.
	Debounce time.Duration

	// Ready, if set, is called once every directory is being watched.
	Ready func()
}

// Watch re-stamps tracked files under root as they are created or
// written, until ctx is cancelled. A failure on one file is logged and
// does not stop watching.
func (s *Stamper) Watch(ctx context.Context, root string, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := s.addTree(w, root, root, nil); err != nil {
		return err
	}
	if opts.Ready != nil {
		opts.Ready()
	}

	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
	)
	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		var t *time.Timer
		t = time.AfterFunc(opts.Debounce, func() {
			s.processWatched(path)
			mu.Lock()
			if cur, ok := timers[path]; ok && cur == t {
				delete(timers, path)
			}
			mu.Unlock()
		})
		timers[path] = t
	}
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil || Excluded(rel, s.excludeDirs) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// Files moved in with the directory produce no events of their own.
					if err := s.addTree(w, root, ev.Name, schedule); err != nil {
						s.logger.Warn("watch add failed", zap.String("path", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && headers.Tracked(ev.Name) {
				schedule(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *Stamper) processWatched(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	// The write that stamped the file fires an event of its own.
	if s.ownWrite(path) {
		s.logger.Debug("own write ignored", zap.String("path", path))
		return
	}
	if _, err := s.ProcessFile(path); err != nil {
		s.logger.Warn("stamp failed", zap.String("path", path), zap.Error(err))
	}
}

// addTree watches dir and every non-excluded directory below it. When
// onFile is set it is called for each tracked file found on the way.
func (s *Stamper) addTree(w *fsnotify.Watcher, root, dir string, onFile func(string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if Excluded(rel, s.excludeDirs) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if onFile != nil && headers.Tracked(path) {
				onFile(path)
			}
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
