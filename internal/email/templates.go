package email

import (
	"fmt"
	"strings"

	"github.com/codr1/Ladderbot/internal/ladder"
)

type Message struct {
	Subject string
	Body    string
}

// BuildLadderEmail renders a ladder notification for one roster member.
func BuildLadderEmail(appName, displayName string, n ladder.Notification) Message {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString(n.Message)
	b.WriteString("\n\n")
	switch n.Event {
	case ladder.EventChallengeIssued:
		fmt.Fprintf(&b, "Play the match and have the winning team report it with /report_win. Team %s cannot take other challenges until this one is reported.\n", n.Team)
	case ladder.EventChallengeCancelled:
		fmt.Fprintf(&b, "Team %s is free to accept new challenges.\n", n.Team)
	case ladder.EventMatchReported:
		fmt.Fprintf(&b, "Check the %s standings for the updated ranks.\n", n.Division)
	}
	fmt.Fprintf(&b, "\n- %s", appName)

	return Message{
		Subject: fmt.Sprintf("[%s %s] %s", appName, n.Division, n.Subject),
		Body:    b.String(),
	}
}
