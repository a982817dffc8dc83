package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/ladder"
)

const sendTimeout = 30 * time.Second

// Notifier emails every roster member that has linked an address. Sends run
// in the background and failures are only logged.
type Notifier struct {
	repo    ladder.Repository
	sender  EmailSender
	appName string
	timeout time.Duration
	wg      sync.WaitGroup
}

// detachedContext keeps the caller's logger and values but not its
// cancellation, so a finished request does not abort queued sends.
func detachedContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

func NewNotifier(repo ladder.Repository, sender EmailSender, appName string) *Notifier {
	return &Notifier{
		repo:    repo,
		sender:  sender,
		appName: appName,
		timeout: sendTimeout,
	}
}

func (n *Notifier) Notify(ctx context.Context, note ladder.Notification) {
	logger := log.Ctx(ctx).With().
		Str("component", "email_notifier").
		Str("event", string(note.Event)).
		Str("team", note.Team).
		Logger()

	recipients := n.recipients(ctx, note.Members)
	if len(recipients) == 0 {
		logger.Debug().Msg("No linked emails for notification")
		return
	}

	for _, member := range recipients {
		msg := BuildLadderEmail(n.appName, member.DisplayName, note)
		recipient := member.Email
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			sendCtx, cancel := detachedContext(ctx, n.timeout)
			defer cancel()
			if err := n.sender.Send(sendCtx, recipient, msg.Subject, msg.Body); err != nil {
				logger.Error().Err(err).Str("player_id", member.PlayerID).Msg("Failed to send notification email")
				return
			}
			logger.Debug().Str("player_id", member.PlayerID).Msg("Notification email sent")
		}()
	}
}

func (n *Notifier) recipients(ctx context.Context, playerIDs []string) []ladder.Member {
	var out []ladder.Member
	err := n.repo.View(ctx, func(tx ladder.Tx) error {
		for _, id := range playerIDs {
			m, err := tx.GetMember(ctx, id)
			if errors.Is(err, ladder.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if m.Email != "" {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to load notification recipients")
		return nil
	}
	return out
}

// Wait blocks until in-flight sends finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
