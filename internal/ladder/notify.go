package ladder

import "context"

type EventType string

const (
	EventChallengeIssued    EventType = "challenge_issued"
	EventChallengeCancelled EventType = "challenge_cancelled"
	EventMatchReported      EventType = "match_reported"
)

// Notification tells every member of one team's roster that something happened.
type Notification struct {
	Event    EventType
	Division Division
	Team     string
	Members  []string
	Subject  string
	Message  string
}

// Notifier delivers notifications. Delivery is fire-and-forget: implementations
// log their own failures and never block the engine on them.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
