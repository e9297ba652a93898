// Package file provides a conflate.Source that watches a file holding a
// keyed document and re-emits its entries on every write.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/tickflow/conflate"
)

// Source watches a file whose contents decode to a map of keyed values
// (for example a YAML document of instrument overrides). Each write emits
// every entry in the new document; rapid successive saves conflate in the
// engine like any other burst.
type Source[K comparable, V any] struct {
	path   string
	decode conflate.DecodeFunc[map[K]V]
}

// Option configures a Source.
type Option[K comparable, V any] func(*Source[K, V])

// New creates a Source for the given file path. The file contents are
// decoded with decode; writes that fail to read or decode are skipped and
// watching continues.
func New[K comparable, V any](path string, decode conflate.DecodeFunc[map[K]V], opts ...Option[K, V]) *Source[K, V] {
	s := &Source[K, V]{
		path:   path,
		decode: decode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Updates begins watching the file and returns a channel that emits the
// file's entries whenever it is written. The current entries are emitted
// immediately so subscribers see the initial document.
func (s *Source[K, V]) Updates(ctx context.Context) (<-chan conflate.Entry[K, V], error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", s.path, err)
	}

	out := make(chan conflate.Entry[K, V])

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit initial contents
		if !s.emit(ctx, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				if !s.emit(ctx, out) {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}

// emit reads, decodes, and sends the file's current entries. It returns
// false when the context ends; read or decode failures skip the emission
// and return true so watching continues.
func (s *Source[K, V]) emit(ctx context.Context, out chan<- conflate.Entry[K, V]) bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return true
	}

	entries, err := s.decode(data)
	if err != nil {
		return true
	}

	for key, value := range entries {
		select {
		case out <- conflate.Entry[K, V]{Key: key, Value: value}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
