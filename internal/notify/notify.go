// Package notify announces finished runs outside the terminal. The
// render can take minutes; a desktop notification lets the user walk
// away from the prompt.
package notify

import (
	"fmt"
	"path/filepath"
	"time"
)

// NotificationType selects the urgency of a notification.
type NotificationType int

const (
	NotifyInfo NotificationType = iota
	NotifySuccess
	NotifyError
)

// Notification is one message to surface to the user.
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
}

// Notifier delivers notifications. Delivery failures are logged by the
// caller and never abort a run.
type Notifier interface {
	Send(n Notification) error
}

// RunFinished builds the end-of-run notice. An empty videoPath means
// the engine exited cleanly but produced nothing discoverable.
func RunFinished(videoPath string, elapsed time.Duration) Notification {
	if videoPath == "" {
		return Notification{
			Title:   "sad-cli",
			Message: "Run completed, but no video was found",
			Type:    NotifyInfo,
		}
	}
	return Notification{
		Title:   "sad-cli",
		Message: fmt.Sprintf("%s ready after %s", filepath.Base(videoPath), elapsed.Round(time.Second)),
		Type:    NotifySuccess,
	}
}

// RunFailed builds the notice for a run that died in the named stage.
func RunFailed(stageName string) Notification {
	return Notification{
		Title:   "sad-cli",
		Message: stageName + " failed, see run.log in the workspace",
		Type:    NotifyError,
	}
}

// NoopNotifier swallows everything; used when notifications are off.
type NoopNotifier struct{}

func (NoopNotifier) Send(n Notification) error { return nil }
