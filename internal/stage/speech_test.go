package stage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeInvoker records the invocation and optionally runs a hook in place
// of the real process.
type fakeInvoker struct {
	name  string
	args  []string
	dir   string
	calls int
	err   error
	hook  func(args []string)
}

func (f *fakeInvoker) Invoke(name string, args []string, dir string) error {
	f.calls++
	f.name = name
	f.args = args
	f.dir = dir
	if f.hook != nil {
		f.hook(args)
	}
	return f.err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSynthesize_EmptyText(t *testing.T) {
	inv := &fakeInvoker{}
	s := &Speech{Piper: "piper", Invoker: inv}

	_, err := s.Synthesize("   ", "voice.onnx", "out.wav")
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v, want ErrEmptyText", err)
	}
	if inv.calls != 0 {
		t.Errorf("invoker called %d times, want 0", inv.calls)
	}
}

func TestSynthesize_MissingVoiceModel(t *testing.T) {
	inv := &fakeInvoker{}
	s := &Speech{Piper: "piper", Invoker: inv}

	_, err := s.Synthesize("hello", filepath.Join(t.TempDir(), "nope.onnx"), "out.wav")

	var missing *MissingVoiceModelError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingVoiceModelError", err)
	}
	if inv.calls != 0 {
		t.Errorf("invoker called %d times, want 0", inv.calls)
	}
}

func TestSynthesize_Success(t *testing.T) {
	dir := t.TempDir()
	voice := writeFile(t, filepath.Join(dir, "voice.onnx"), "model")
	out := filepath.Join(dir, "piper.wav")

	inv := &fakeInvoker{hook: func([]string) {
		writeFile(t, out, "RIFF....WAVE")
	}}
	s := &Speech{Piper: "piper", Invoker: inv}

	got, err := s.Synthesize("hello world", voice, out)
	if err != nil {
		t.Fatal(err)
	}
	if got != out {
		t.Errorf("returned path = %q, want %q", got, out)
	}
	if inv.name != "piper" {
		t.Errorf("invoked %q, want piper", inv.name)
	}

	want := []string{"-m", voice, "-t", "hello world", "-f", out}
	if len(inv.args) != len(want) {
		t.Fatalf("args = %v, want %v", inv.args, want)
	}
	for i := range want {
		if inv.args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, inv.args[i], want[i])
		}
	}
}

func TestSynthesize_ZeroByteOutput(t *testing.T) {
	dir := t.TempDir()
	voice := writeFile(t, filepath.Join(dir, "voice.onnx"), "model")
	out := filepath.Join(dir, "piper.wav")

	// Process "succeeds" but leaves an empty file behind.
	inv := &fakeInvoker{hook: func([]string) {
		writeFile(t, out, "")
	}}
	s := &Speech{Piper: "piper", Invoker: inv}

	_, err := s.Synthesize("hello", voice, out)

	var empty *EmptyArtifactError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want *EmptyArtifactError", err)
	}
}

func TestSynthesize_InvokerFailure(t *testing.T) {
	dir := t.TempDir()
	voice := writeFile(t, filepath.Join(dir, "voice.onnx"), "model")

	inv := &fakeInvoker{err: errors.New("exit status 1")}
	s := &Speech{Piper: "piper", Invoker: inv}

	if _, err := s.Synthesize("hello", voice, filepath.Join(dir, "out.wav")); err == nil {
		t.Fatal("expected error")
	}
}
