// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// maxListed caps how many habit names a reminder spells out.
const maxListed = 5

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send func(title, message string, icon any) error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration. With sound
// enabled notifications go through beeep.Alert, otherwise beeep.Notify.
func New(cfg *config.NotificationConfig) *Notifier {
	send := beeep.Notify
	if cfg != nil && cfg.Sound {
		send = beeep.Alert
	}
	return &Notifier{cfg: cfg, send: send}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	return n.send(title, message, "")
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// RemindPending notifies about habits not yet completed on date. It reports
// whether a notification was due; nothing is sent when every habit is done.
func RemindPending(n ports.Notifier, state *domain.AppState, date string) (bool, error) {
	pending := state.PendingHabitsOn(date)
	if len(pending) == 0 {
		return false, nil
	}
	return true, n.Notify(ReminderTitle(len(pending)), ReminderMessage(pending))
}

// ReminderTitle is the notification title for n pending habits.
func ReminderTitle(n int) string {
	if n == 1 {
		return "🌱 1 habit left today"
	}
	return fmt.Sprintf("🌱 %d habits left today", n)
}

// ReminderMessage lists pending habit names, eliding the tail.
func ReminderMessage(pending []*domain.Habit) string {
	names := make([]string, 0, maxListed)
	for i, h := range pending {
		if i == maxListed {
			break
		}
		names = append(names, h.Name)
	}
	msg := strings.Join(names, ", ")
	if extra := len(pending) - maxListed; extra > 0 {
		msg += fmt.Sprintf(" and %d more", extra)
	}
	return msg
}
