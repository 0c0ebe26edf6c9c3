// Package invoker runs external executables as synchronous, blocking
// calls with uniform error translation: a missing binary and a non-zero
// exit are reported as distinct typed errors. Failed invocations are
// never retried here.
package invoker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Invoker runs one external command to completion.
type Invoker interface {
	Invoke(name string, args []string, dir string) error
}

// NotFoundError means the executable could not be located or started.
type NotFoundError struct {
	Executable string
	Err        error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found: %v", e.Executable, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError means the process started but exited non-zero. It carries
// the full command line and the captured stderr for the user-facing
// failure message.
type ExitError struct {
	CommandLine string
	Stderr      string
	Err         error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command failed: %s: %v", e.CommandLine, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exec invokes commands via os/exec. Output, when set, receives the
// process's stdout and stderr as they are produced (the run log).
type Exec struct {
	Output io.Writer
}

// Invoke runs name with args in dir and blocks until it exits.
func (x *Exec) Invoke(name string, args []string, dir string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	if x.Output != nil {
		cmd.Stdout = x.Output
		cmd.Stderr = io.MultiWriter(x.Output, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Start(); err != nil {
		return &NotFoundError{Executable: name, Err: err}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				CommandLine: CommandLine(name, args),
				Stderr:      strings.TrimSpace(stderr.String()),
				Err:         err,
			}
		}
		return fmt.Errorf("waiting for %s: %w", name, err)
	}
	return nil
}

// CommandLine renders a command for logs and error messages.
func CommandLine(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}
