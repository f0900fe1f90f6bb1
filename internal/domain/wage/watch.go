package wage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 250 * time.Millisecond

// LiveTable serves a table loaded from a file and swaps it when the file
// changes. A file that fails to parse leaves the previous table in place.
type LiveTable struct {
	path    string
	current atomic.Pointer[Table]
}

func NewLiveTable(path string) (*LiveTable, error) {
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	live := &LiveTable{path: path}
	live.current.Store(table)
	return live, nil
}

func (l *LiveTable) BaseFor(year int) Entry { return l.current.Load().BaseFor(year) }
func (l *LiveTable) Latest() Entry          { return l.current.Load().Latest() }
func (l *LiveTable) Entries() []Entry       { return l.current.Load().Entries() }

// Reload reads the file again.
func (l *LiveTable) Reload() error {
	table, err := LoadTable(l.path)
	if err != nil {
		return err
	}
	l.current.Store(table)
	return nil
}

// Watch reloads the table on writes to its file until ctx is done. The
// parent directory is watched so editors that replace the file by rename
// are picked up too.
func (l *LiveTable) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("watch %s: %w", l.path, err)
	}
	target := filepath.Clean(l.path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("minimum wage watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := l.Reload(); err != nil {
				zap.L().Warn("minimum wage table reload failed; keeping previous table",
					zap.String("path", l.path), zap.Error(err))
				continue
			}
			zap.L().Info("minimum wage table reloaded",
				zap.String("path", l.path), zap.Int("latest_year", l.Latest().Year))
		}
	}
}
