package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestLocate_EmptyDir(t *testing.T) {
	_, err := Locate(t.TempDir(), ".mp4")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocate_NewestWins(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "a.mp4"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(dir, "b.mp4"), now.Add(-time.Hour))

	got, err := Locate(dir, ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got.Path) != "b.mp4" {
		t.Errorf("Path = %q, want b.mp4", got.Path)
	}
}

func TestLocate_Recursive(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "old.mp4"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "2024_01_02_03.04.05", "render.mp4"), now)

	got, err := Locate(dir, ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got.Path) != "render.mp4" {
		t.Errorf("Path = %q, want nested render.mp4", got.Path)
	}
}

func TestLocate_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "piper.wav"), now)
	touch(t, filepath.Join(dir, "run.log"), now)

	if _, err := Locate(dir, ".mp4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	got, err := Locate(dir, ".wav")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got.Path) != "piper.wav" {
		t.Errorf("Path = %q, want piper.wav", got.Path)
	}
}
