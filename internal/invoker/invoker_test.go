package invoker

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestInvoke_Success(t *testing.T) {
	var out bytes.Buffer
	x := &Exec{Output: &out}

	if err := x.Invoke("sh", []string{"-c", "echo hello"}, t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("output = %q, want it to contain hello", out.String())
	}
}

func TestInvoke_NonZeroExit(t *testing.T) {
	x := &Exec{}

	err := x.Invoke("sh", []string{"-c", "echo boom >&2; exit 3"}, "")
	if err == nil {
		t.Fatal("expected error")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if !strings.Contains(exitErr.Stderr, "boom") {
		t.Errorf("Stderr = %q, want captured stderr", exitErr.Stderr)
	}
	if !strings.HasPrefix(exitErr.CommandLine, "sh ") {
		t.Errorf("CommandLine = %q", exitErr.CommandLine)
	}
}

func TestInvoke_ExecutableNotFound(t *testing.T) {
	x := &Exec{}

	err := x.Invoke("definitely-not-a-real-binary-xyz", nil, "")
	if err == nil {
		t.Fatal("expected error")
	}

	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if nfErr.Executable != "definitely-not-a-real-binary-xyz" {
		t.Errorf("Executable = %q", nfErr.Executable)
	}
}

func TestInvoke_RunsInDirectory(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	x := &Exec{Output: &out}

	if err := x.Invoke("pwd", nil, dir); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Errorf("pwd output = %q, want %q", out.String(), dir)
	}
}
