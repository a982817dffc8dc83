// Package notify fans ladder events out to the configured delivery channels.
package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/ladder"
)

// LogNotifier records every notification in the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n ladder.Notification) {
	log.Ctx(ctx).Info().
		Str("component", "notifier").
		Str("event", string(n.Event)).
		Str("division", n.Division.String()).
		Str("team", n.Team).
		Str("members", strings.Join(n.Members, ",")).
		Str("subject", n.Subject).
		Msg(n.Message)
}

// Multi delivers each notification to every wrapped notifier in order.
type Multi []ladder.Notifier

func (m Multi) Notify(ctx context.Context, n ladder.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
