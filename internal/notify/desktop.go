package notify

import (
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier shells out to the platform notification tool:
// osascript on macOS, notify-send on Linux. Anything else is a no-op,
// as is a disabled notifier.
type DesktopNotifier struct {
	enabled bool
}

func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{enabled: enabled}
}

func (d *DesktopNotifier) Send(n Notification) error {
	if !d.enabled {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return d.sendMacOS(n)
	case "linux":
		return d.sendLinux(n)
	default:
		return nil
	}
}

func (d *DesktopNotifier) sendMacOS(n Notification) error {
	script := "display notification " + appleQuote(n.Message) +
		" with title " + appleQuote(n.Title)
	if n.Type == NotifyError {
		script += ` sound name "Basso"`
	}
	return exec.Command("osascript", "-e", script).Run()
}

func (d *DesktopNotifier) sendLinux(n Notification) error {
	args := []string{"--app-name=sad-cli", "--urgency=" + urgency(n.Type), n.Title, n.Message}
	return exec.Command("notify-send", args...).Run()
}

// appleQuote wraps s for embedding in an AppleScript string literal.
// Video paths can contain quotes; unescaped they would end the literal
// early.
func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func urgency(t NotificationType) string {
	switch t {
	case NotifyError:
		return "critical"
	case NotifySuccess:
		return "normal"
	default:
		return "low"
	}
}
