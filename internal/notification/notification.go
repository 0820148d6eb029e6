// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/parley/internal/logger"
)

// notify is swapped out in tests.
var notify = beeep.Notify

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon lets beeep pick the platform default
	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady announces that a background session received its reply.
func ReplyReady(sessionTitle string) error {
	return Send("Parley", sessionTitle+" has a new reply")
}
