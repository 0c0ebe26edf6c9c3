package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchProgress reports files the animation engine drops under root
// while it runs, so the long blocking render is not completely silent.
// It returns a stop function; when the watcher cannot be created the
// run proceeds without progress output.
func watchProgress(root string, out io.Writer) (stop func()) {
	if out == nil {
		return func() {}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return func() {}
	}
	if err := w.Add(root); err != nil {
		w.Close()
		return func() {}
	}
	// The save dir usually exists already; watch it too.
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err == nil && d.IsDir() && path != root {
			w.Add(path)
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) {
					continue
				}
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// Engine created its own subdirectory; follow it.
					w.Add(ev.Name)
					continue
				}
				if rel, err := filepath.Rel(root, ev.Name); err == nil {
					fmt.Fprintf(out, "  + %s\n", rel)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}
}
