package ladder

import "context"

// TeamStore holds team records. Lookups of a missing team return ErrNotFound.
// ListTeams returns teams ordered by rank. UpdateRecord writes wins, losses
// and streaks only; ranks change through UpdateRanks.
type TeamStore interface {
	CountTeams(ctx context.Context, division Division) (int, error)
	GetTeam(ctx context.Context, name string) (Team, error)
	ListTeams(ctx context.Context, division Division) ([]Team, error)
	FindTeamByMember(ctx context.Context, division Division, playerID string) (string, error)
	InsertTeam(ctx context.Context, team Team) error
	DeleteTeam(ctx context.Context, division Division, name string) error
	UpdateRanks(ctx context.Context, division Division, changes []RankChange) error
	UpdateRecord(ctx context.Context, team Team) error
	DeleteTeams(ctx context.Context, division Division) error
}

// ChallengeStore holds pending challenges. FindOpponent and GetChallenge
// return ErrNotFound when no row matches.
type ChallengeStore interface {
	IsChallenged(ctx context.Context, division Division, team string) (bool, error)
	IsChallenger(ctx context.Context, division Division, team string) (bool, error)
	FindOpponent(ctx context.Context, division Division, team string) (string, error)
	GetChallenge(ctx context.Context, division Division, challenger string) (Challenge, error)
	CreateChallenge(ctx context.Context, challenge Challenge) error
	DeleteChallenge(ctx context.Context, division Division, challenger string) error
	DeleteChallengesInvolving(ctx context.Context, division Division, team string) error
	ListChallenges(ctx context.Context, division Division) ([]Challenge, error)
	DeleteChallenges(ctx context.Context, division Division) error
}

// StateStore holds the per-division running flag and channel bindings.
type StateStore interface {
	GetDivisionState(ctx context.Context, division Division) (DivisionState, error)
	ListDivisionStates(ctx context.Context) ([]DivisionState, error)
	SetRunning(ctx context.Context, division Division, running bool) error
	SetStandingsChannel(ctx context.Context, division Division, channelID string) error
	SetChallengesChannel(ctx context.Context, division Division, channelID string) error
}

// MemberStore is the stat-tracking collaborator.
type MemberStore interface {
	GetMember(ctx context.Context, playerID string) (Member, error)
	// CreateMember inserts the member if it does not exist yet and reports
	// whether a row was created.
	CreateMember(ctx context.Context, playerID, displayName string) (bool, error)
	SetMemberEmail(ctx context.Context, playerID, email string) error
	IncrementTeamsCount(ctx context.Context, playerID string) error
	IncrementParticipation(ctx context.Context, playerID string) error
	RecordDivisionResult(ctx context.Context, playerID string, division Division, won bool) error
	AddChampionTitle(ctx context.Context, playerID string, division Division) error
}

// Tx is the set of stores visible inside one transaction.
type Tx interface {
	TeamStore
	ChallengeStore
	StateStore
	MemberStore
}

// Repository is the engine's storage collaborator. InTx runs fn atomically:
// when fn returns an error nothing it wrote is kept. View runs fn against a
// consistent read-only view and must not be used to write.
type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}
