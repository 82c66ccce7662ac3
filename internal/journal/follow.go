package journal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
)

// Follow returns a Source that emits every record already in the file at
// path and then each record appended to it, until cancelled. Partial lines
// are held back until their newline arrives. The source errors if the file
// cannot be opened or is removed.
func Follow(lp *loop.Loop, path string) observable.Source[Record] {
	return observable.Create(lp, func(ctx context.Context, emit func(Record)) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("journal: follow %q: %w", path, err)
		}
		defer f.Close()

		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("journal: watcher: %w", err)
		}
		defer w.Close()
		// Watch the directory: some editors and tools replace files rather
		// than writing them in place.
		if err := w.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("journal: watch %q: %w", path, err)
		}

		t := &tail{r: bufio.NewReader(f), name: path}
		if err := t.drain(emit); err != nil {
			return err
		}

		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					return fmt.Errorf("journal: %s was removed", path)
				}
				if ev.Has(fsnotify.Write) {
					if err := t.drain(emit); err != nil {
						return err
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("journal: watch %q: %w", path, err)
			}
		}
	})
}

// tail reads complete lines from a growing file.
type tail struct {
	r       *bufio.Reader
	name    string
	partial []byte
	line    int
}

// drain emits every complete record currently readable.
func (t *tail) drain(emit func(Record)) error {
	for {
		chunk, err := t.r.ReadBytes('\n')
		t.partial = append(t.partial, chunk...)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("journal: read %s: %w", t.name, err)
		}

		t.line++
		raw := bytes.TrimSpace(t.partial)
		t.partial = t.partial[:0]
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("journal: skipping malformed line %d in %s: %v", t.line, t.name, err)
			continue
		}
		emit(rec)
	}
}
