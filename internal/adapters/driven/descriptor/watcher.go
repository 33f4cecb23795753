package descriptor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DescriptorWatcher = (*Watcher)(nil)

// Watcher reports changes to a descriptor file using fsnotify.
// The parent directory is watched because saves replace the file by rename.
type Watcher struct {
	path string
}

// NewWatcher creates a watcher for the descriptor at path.
func NewWatcher(path string) *Watcher {
	return &Watcher{path: filepath.Clean(path)}
}

// Watch emits a value for every write, create, remove or rename of the descriptor.
// Bursts of events are coalesced into a single notification.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %w", domain.ErrIO, err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("%w: watching %s: %w", domain.ErrIO, filepath.Dir(w.path), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer fw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					select {
					case out <- struct{}{}:
					default:
					}
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watching %s: %v", w.path, err)
			}
		}
	}()

	return out, nil
}
