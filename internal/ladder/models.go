package ladder

import (
	"slices"
	"time"
)

const ChallengeStatusPending = "pending"

type Team struct {
	Name       string
	Division   Division
	Rank       int
	Wins       int
	Losses     int
	WinStreak  int
	LossStreak int
	Members    []string
	CreatedAt  time.Time
}

// HasMember reports whether playerID is on the team's roster.
func (t Team) HasMember(playerID string) bool {
	return slices.Contains(t.Members, playerID)
}

type Challenge struct {
	MatchID    string
	Division   Division
	Challenger string
	Challenged string
	Status     string
	CreatedAt  time.Time
}

// Involves reports whether team is on either side of the challenge.
func (c Challenge) Involves(team string) bool {
	return c.Challenger == team || c.Challenged == team
}

type DivisionState struct {
	Division          Division
	Running           bool
	StandingsChannel  string
	ChallengesChannel string
}

type DivisionRecord struct {
	Wins           int
	Losses         int
	ChampionTitles int
}

// Member is the per-player bookkeeping record kept alongside the ladder.
type Member struct {
	PlayerID           string
	DisplayName        string
	Email              string
	TeamsCount         int
	ParticipationCount int
	Records            map[Division]DivisionRecord
	CreatedAt          time.Time
}

// RankChange assigns a new rank to a team within one division.
type RankChange struct {
	Team string
	Rank int
}

// ReportCase says which side of a challenge won.
type ReportCase string

const (
	// ChallengerWon moves the winner into the loser's rank.
	ChallengerWon ReportCase = "challenger_won"
	// ChallengedWon leaves ranks untouched.
	ChallengedWon ReportCase = "challenged_won"
)

// MatchReport describes the outcome of a reported win.
type MatchReport struct {
	Division         Division
	Case             ReportCase
	Winner           string
	Loser            string
	WinnerRankBefore int
	WinnerRankAfter  int
	LoserRankBefore  int
	LoserRankAfter   int
	Standings        []Team
}

// RankMove is the outcome of a manual rank override.
type RankMove struct {
	Team      string
	Division  Division
	From      int
	To        int
	Standings []Team
}

// LadderSummary is the final snapshot captured when a ladder ends.
type LadderSummary struct {
	Division  Division
	Standings []Team
	Champion  *Team
}
