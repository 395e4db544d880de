// Package notification delivers fired-alert events to external
// channels (Telegram, webhooks) and to the process log.
package notification

import (
	"context"
	"log"

	"tradewatch/internal/model"
)

// LogNotifier writes fired alerts to the process log. It is the
// fallback channel and is always wired, so a fired alert leaves a
// trace even with no external channel configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, event model.AlertFiredEvent) error {
	log.Printf("[notify] [%s] %s: %s", event.Type, event.Symbol, event.Message)
	return nil
}

// Multi fans one event out to several notifiers. Every notifier gets
// the event; the first error is returned after all sends complete.
type Multi struct {
	notifiers []model.Notifier
}

// NewMulti creates a fan-out notifier.
func NewMulti(notifiers ...model.Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Send(ctx context.Context, event model.AlertFiredEvent) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, event); err != nil {
			log.Printf("[notify] channel delivery failed for %s: %v", event.AlertID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
