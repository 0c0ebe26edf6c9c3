// Package artifact discovers the files a run produced. The animation
// engine names its output internally, so "newest matching file under the
// result directory" is the defining relation between a run and its video.
package artifact

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when no matching file exists. Callers treat it
// as a soft signal, not a run failure.
var ErrNotFound = errors.New("no matching artifact found")

// Artifact is a produced file with the metadata used to rank it.
type Artifact struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Locate walks root recursively and returns the newest file (by
// modification time) whose name ends in ext, e.g. ".mp4". The whole tree
// is searched rather than just the pre-created save directory, so an
// engine that picked its own save directory is still found.
func Locate(root, ext string) (*Artifact, error) {
	var newest *Artifact

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if newest == nil || info.ModTime().After(newest.ModTime) {
			newest = &Artifact{Path: path, ModTime: info.ModTime(), Size: info.Size()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if newest == nil {
		return nil, ErrNotFound
	}
	return newest, nil
}
