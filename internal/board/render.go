// Package board renders and publishes the plain-text standings and challenge
// boards of each division.
package board

import (
	"fmt"
	"strings"

	"github.com/codr1/Ladderbot/internal/ladder"
)

// Kind names which board a post carries.
type Kind string

const (
	KindStandings  Kind = "standings"
	KindChallenges Kind = "challenges"
)

// RenderStandings formats teams as a fixed-width table in rank order.
func RenderStandings(division ladder.Division, teams []ladder.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 **%s Division Standings** 🏆\n", strings.ToUpper(division.String()))
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-6s %-15s %-5s %-5s\n", "Rank", "Team Name", "Wins", "Losses")
	b.WriteString(strings.Repeat("-", 36) + "\n")
	if len(teams) == 0 {
		b.WriteString("No teams registered.\n")
	}
	for _, t := range teams {
		fmt.Fprintf(&b, "%-6d %-15s %-5d %-5d\n", t.Rank, t.Name, t.Wins, t.Losses)
	}
	b.WriteString("```")
	return b.String()
}

// RenderChallenges formats pending challenges in creation order.
func RenderChallenges(division ladder.Division, challenges []ladder.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚔️ **%s Division Challenges** ⚔️\n", strings.ToUpper(division.String()))
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-20s %-20s\n", "Challenger", "Challenged")
	b.WriteString(strings.Repeat("-", 41) + "\n")
	if len(challenges) == 0 {
		b.WriteString("No pending challenges.\n")
	}
	for _, c := range challenges {
		fmt.Fprintf(&b, "%-20s %-20s\n", c.Challenger, c.Challenged)
	}
	b.WriteString("```")
	return b.String()
}
