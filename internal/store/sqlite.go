package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/Ladderbot/internal/db"
	dbgen "github.com/codr1/Ladderbot/internal/db/generated"
	"github.com/codr1/Ladderbot/internal/ladder"
)

var (
	_ ladder.Repository = (*SQLiteStore)(nil)
	_ ladder.Repository = (*MemoryStore)(nil)
	_ ladder.Tx         = (*sqliteTx)(nil)
	_ ladder.Tx         = (*memState)(nil)
)

// SQLiteStore persists the ladder through the generated queries.
type SQLiteStore struct {
	db *db.DB
}

func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

func (s *SQLiteStore) InTx(ctx context.Context, fn func(tx ladder.Tx) error) error {
	return s.db.RunInTx(ctx, func(txdb *db.DB) error {
		return fn(&sqliteTx{q: txdb.Queries})
	})
}

func (s *SQLiteStore) View(ctx context.Context, fn func(tx ladder.Tx) error) error {
	return fn(&sqliteTx{q: s.db.Queries})
}

type sqliteTx struct {
	q *dbgen.Queries
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ladder.ErrNotFound
	}
	return err
}

func toTeam(row dbgen.Team, members []string) ladder.Team {
	return ladder.Team{
		Name:       row.TeamName,
		Division:   ladder.Division(row.Division),
		Rank:       int(row.LadderRank),
		Wins:       int(row.Wins),
		Losses:     int(row.Losses),
		WinStreak:  int(row.WinStreak),
		LossStreak: int(row.LossStreak),
		Members:    members,
		CreatedAt:  row.CreatedAt,
	}
}

func toChallenge(row dbgen.Challenge) ladder.Challenge {
	return ladder.Challenge{
		MatchID:    row.MatchID,
		Division:   ladder.Division(row.Division),
		Challenger: row.Challenger,
		Challenged: row.Challenged,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}
}

func toDivisionState(row dbgen.DivisionState) ladder.DivisionState {
	return ladder.DivisionState{
		Division:          ladder.Division(row.Division),
		Running:           row.LadderRunning != 0,
		StandingsChannel:  row.StandingsChannel,
		ChallengesChannel: row.ChallengesChannel,
	}
}

func (t *sqliteTx) CountTeams(ctx context.Context, division ladder.Division) (int, error) {
	n, err := t.q.CountTeams(ctx, string(division))
	if err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return int(n), nil
}

func (t *sqliteTx) GetTeam(ctx context.Context, name string) (ladder.Team, error) {
	row, err := t.q.GetTeamByName(ctx, name)
	if err != nil {
		return ladder.Team{}, notFound(err)
	}
	rows, err := t.q.ListTeamMembers(ctx, row.ID)
	if err != nil {
		return ladder.Team{}, fmt.Errorf("list members of %s: %w", name, err)
	}
	members := make([]string, 0, len(rows))
	for _, m := range rows {
		members = append(members, m.PlayerID)
	}
	return toTeam(row, members), nil
}

func (t *sqliteTx) ListTeams(ctx context.Context, division ladder.Division) ([]ladder.Team, error) {
	rows, err := t.q.ListTeamsByDivision(ctx, string(division))
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	memberRows, err := t.q.ListTeamMembersByDivision(ctx, string(division))
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	byTeam := make(map[int64][]string, len(rows))
	for _, m := range memberRows {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m.PlayerID)
	}

	teams := make([]ladder.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, toTeam(row, byTeam[row.ID]))
	}
	return teams, nil
}

func (t *sqliteTx) FindTeamByMember(ctx context.Context, division ladder.Division, playerID string) (string, error) {
	name, err := t.q.FindTeamByMember(ctx, dbgen.FindTeamByMemberParams{
		Division: string(division),
		PlayerID: playerID,
	})
	if err != nil {
		return "", notFound(err)
	}
	return name, nil
}

func (t *sqliteTx) InsertTeam(ctx context.Context, team ladder.Team) error {
	id, err := t.q.CreateTeam(ctx, dbgen.CreateTeamParams{
		TeamName:   team.Name,
		Division:   string(team.Division),
		LadderRank: int64(team.Rank),
	})
	if err != nil {
		return fmt.Errorf("create team %s: %w", team.Name, err)
	}
	for i, playerID := range team.Members {
		if err := t.q.AddTeamMember(ctx, dbgen.AddTeamMemberParams{
			TeamID:   id,
			Position: int64(i),
			PlayerID: playerID,
		}); err != nil {
			return fmt.Errorf("add member %s to %s: %w", playerID, team.Name, err)
		}
	}
	return nil
}

func (t *sqliteTx) DeleteTeam(ctx context.Context, division ladder.Division, name string) error {
	n, err := t.q.DeleteTeam(ctx, dbgen.DeleteTeamParams{Division: string(division), TeamName: name})
	if err != nil {
		return fmt.Errorf("delete team %s: %w", name, err)
	}
	if n == 0 {
		return ladder.ErrNotFound
	}
	return nil
}

func (t *sqliteTx) UpdateRanks(ctx context.Context, division ladder.Division, changes []ladder.RankChange) error {
	for _, c := range changes {
		n, err := t.q.UpdateTeamRank(ctx, dbgen.UpdateTeamRankParams{
			LadderRank: int64(c.Rank),
			Division:   string(division),
			TeamName:   c.Team,
		})
		if err != nil {
			return fmt.Errorf("update rank of %s: %w", c.Team, err)
		}
		if n == 0 {
			return fmt.Errorf("team %s not in %s division: %w", c.Team, division, ladder.ErrNotFound)
		}
	}
	return nil
}

func (t *sqliteTx) UpdateRecord(ctx context.Context, team ladder.Team) error {
	n, err := t.q.UpdateTeamRecord(ctx, dbgen.UpdateTeamRecordParams{
		Wins:       int64(team.Wins),
		Losses:     int64(team.Losses),
		WinStreak:  int64(team.WinStreak),
		LossStreak: int64(team.LossStreak),
		TeamName:   team.Name,
	})
	if err != nil {
		return fmt.Errorf("update record of %s: %w", team.Name, err)
	}
	if n == 0 {
		return ladder.ErrNotFound
	}
	return nil
}

func (t *sqliteTx) DeleteTeams(ctx context.Context, division ladder.Division) error {
	if err := t.q.DeleteTeamsByDivision(ctx, string(division)); err != nil {
		return fmt.Errorf("delete teams: %w", err)
	}
	return nil
}

func (t *sqliteTx) IsChallenged(ctx context.Context, division ladder.Division, team string) (bool, error) {
	n, err := t.q.CountChallengesAsChallenged(ctx, dbgen.CountChallengesAsChallengedParams{
		Division:   string(division),
		Challenged: team,
	})
	if err != nil {
		return false, fmt.Errorf("count challenges against %s: %w", team, err)
	}
	return n > 0, nil
}

func (t *sqliteTx) IsChallenger(ctx context.Context, division ladder.Division, team string) (bool, error) {
	n, err := t.q.CountChallengesAsChallenger(ctx, dbgen.CountChallengesAsChallengerParams{
		Division:   string(division),
		Challenger: team,
	})
	if err != nil {
		return false, fmt.Errorf("count challenges by %s: %w", team, err)
	}
	return n > 0, nil
}

func (t *sqliteTx) FindOpponent(ctx context.Context, division ladder.Division, team string) (string, error) {
	row, err := t.q.GetChallengeInvolving(ctx, dbgen.GetChallengeInvolvingParams{
		Division:   string(division),
		Challenger: team,
		Challenged: team,
	})
	if err != nil {
		return "", notFound(err)
	}
	if row.Challenger == team {
		return row.Challenged, nil
	}
	return row.Challenger, nil
}

func (t *sqliteTx) GetChallenge(ctx context.Context, division ladder.Division, challenger string) (ladder.Challenge, error) {
	row, err := t.q.GetChallengeByMatchID(ctx, dbgen.GetChallengeByMatchIDParams{
		Division: string(division),
		MatchID:  challenger,
	})
	if err != nil {
		return ladder.Challenge{}, notFound(err)
	}
	return toChallenge(row), nil
}

func (t *sqliteTx) CreateChallenge(ctx context.Context, challenge ladder.Challenge) error {
	if err := t.q.CreateChallenge(ctx, dbgen.CreateChallengeParams{
		Division:   string(challenge.Division),
		MatchID:    challenge.MatchID,
		Challenger: challenge.Challenger,
		Challenged: challenge.Challenged,
		Status:     challenge.Status,
	}); err != nil {
		return fmt.Errorf("create challenge %s: %w", challenge.MatchID, err)
	}
	return nil
}

func (t *sqliteTx) DeleteChallenge(ctx context.Context, division ladder.Division, challenger string) error {
	if err := t.q.DeleteChallengeByMatchID(ctx, dbgen.DeleteChallengeByMatchIDParams{
		Division: string(division),
		MatchID:  challenger,
	}); err != nil {
		return fmt.Errorf("delete challenge %s: %w", challenger, err)
	}
	return nil
}

func (t *sqliteTx) DeleteChallengesInvolving(ctx context.Context, division ladder.Division, team string) error {
	if err := t.q.DeleteChallengesInvolving(ctx, dbgen.DeleteChallengesInvolvingParams{
		Division:   string(division),
		Challenger: team,
		Challenged: team,
	}); err != nil {
		return fmt.Errorf("delete challenges involving %s: %w", team, err)
	}
	return nil
}

func (t *sqliteTx) ListChallenges(ctx context.Context, division ladder.Division) ([]ladder.Challenge, error) {
	rows, err := t.q.ListChallengesByDivision(ctx, string(division))
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	out := make([]ladder.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, toChallenge(row))
	}
	return out, nil
}

func (t *sqliteTx) DeleteChallenges(ctx context.Context, division ladder.Division) error {
	if err := t.q.DeleteChallengesByDivision(ctx, string(division)); err != nil {
		return fmt.Errorf("delete challenges: %w", err)
	}
	return nil
}

func (t *sqliteTx) GetDivisionState(ctx context.Context, division ladder.Division) (ladder.DivisionState, error) {
	row, err := t.q.GetDivisionState(ctx, string(division))
	if err != nil {
		return ladder.DivisionState{Division: division}, notFound(err)
	}
	return toDivisionState(row), nil
}

func (t *sqliteTx) ListDivisionStates(ctx context.Context) ([]ladder.DivisionState, error) {
	rows, err := t.q.ListDivisionStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list division states: %w", err)
	}
	out := make([]ladder.DivisionState, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDivisionState(row))
	}
	return out, nil
}

func (t *sqliteTx) SetRunning(ctx context.Context, division ladder.Division, running bool) error {
	var flag int64
	if running {
		flag = 1
	}
	if err := t.q.UpsertDivisionRunning(ctx, dbgen.UpsertDivisionRunningParams{
		Division:      string(division),
		LadderRunning: flag,
	}); err != nil {
		return fmt.Errorf("set %s running: %w", division, err)
	}
	return nil
}

func (t *sqliteTx) SetStandingsChannel(ctx context.Context, division ladder.Division, channelID string) error {
	if err := t.q.UpsertStandingsChannel(ctx, dbgen.UpsertStandingsChannelParams{
		Division:         string(division),
		StandingsChannel: channelID,
	}); err != nil {
		return fmt.Errorf("set %s standings channel: %w", division, err)
	}
	return nil
}

func (t *sqliteTx) SetChallengesChannel(ctx context.Context, division ladder.Division, channelID string) error {
	if err := t.q.UpsertChallengesChannel(ctx, dbgen.UpsertChallengesChannelParams{
		Division:          string(division),
		ChallengesChannel: channelID,
	}); err != nil {
		return fmt.Errorf("set %s challenges channel: %w", division, err)
	}
	return nil
}

func (t *sqliteTx) GetMember(ctx context.Context, playerID string) (ladder.Member, error) {
	row, err := t.q.GetMember(ctx, playerID)
	if err != nil {
		return ladder.Member{}, notFound(err)
	}
	stats, err := t.q.ListMemberDivisionStats(ctx, playerID)
	if err != nil {
		return ladder.Member{}, fmt.Errorf("list stats of %s: %w", playerID, err)
	}

	member := ladder.Member{
		PlayerID:           row.PlayerID,
		DisplayName:        row.DisplayName,
		Email:              row.Email,
		TeamsCount:         int(row.TeamsCount),
		ParticipationCount: int(row.ParticipationCount),
		Records:            make(map[ladder.Division]ladder.DivisionRecord, len(stats)),
		CreatedAt:          row.CreatedAt,
	}
	for _, s := range stats {
		member.Records[ladder.Division(s.Division)] = ladder.DivisionRecord{
			Wins:           int(s.Wins),
			Losses:         int(s.Losses),
			ChampionTitles: int(s.ChampionTitles),
		}
	}
	return member, nil
}

func (t *sqliteTx) CreateMember(ctx context.Context, playerID, displayName string) (bool, error) {
	n, err := t.q.CreateMember(ctx, dbgen.CreateMemberParams{PlayerID: playerID, DisplayName: displayName})
	if err != nil {
		return false, fmt.Errorf("create member %s: %w", playerID, err)
	}
	return n > 0, nil
}

func (t *sqliteTx) SetMemberEmail(ctx context.Context, playerID, email string) error {
	n, err := t.q.SetMemberEmail(ctx, dbgen.SetMemberEmailParams{Email: email, PlayerID: playerID})
	if err != nil {
		return fmt.Errorf("set email of %s: %w", playerID, err)
	}
	if n == 0 {
		return ladder.ErrNotFound
	}
	return nil
}

func (t *sqliteTx) IncrementTeamsCount(ctx context.Context, playerID string) error {
	return t.q.IncrementMemberTeams(ctx, playerID)
}

func (t *sqliteTx) IncrementParticipation(ctx context.Context, playerID string) error {
	return t.q.IncrementMemberParticipation(ctx, playerID)
}

func (t *sqliteTx) RecordDivisionResult(ctx context.Context, playerID string, division ladder.Division, won bool) error {
	if won {
		return t.q.RecordMemberWin(ctx, dbgen.RecordMemberWinParams{PlayerID: playerID, Division: string(division)})
	}
	return t.q.RecordMemberLoss(ctx, dbgen.RecordMemberLossParams{PlayerID: playerID, Division: string(division)})
}

func (t *sqliteTx) AddChampionTitle(ctx context.Context, playerID string, division ladder.Division) error {
	return t.q.AddMemberChampionTitle(ctx, dbgen.AddMemberChampionTitleParams{PlayerID: playerID, Division: string(division)})
}
