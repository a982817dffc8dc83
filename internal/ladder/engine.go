package ladder

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultChallengeRange is how many ranks above itself a team may challenge.
const DefaultChallengeRange = 2

const testTeamCount = 5

// Player identifies a roster member as the chat platform reports it.
type Player struct {
	ID          string
	DisplayName string
}

// Engine owns every mutation of the ladder. Mutating operations are serialized
// by a single lock and each runs in one repository transaction.
type Engine struct {
	repo           Repository
	notifier       Notifier
	challengeRange int
	mu             sync.Mutex
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

func WithChallengeRange(ranks int) Option {
	return func(e *Engine) {
		if ranks > 0 {
			e.challengeRange = ranks
		}
	}
}

func NewEngine(repo Repository, opts ...Option) (*Engine, error) {
	if repo == nil {
		return nil, errors.New("ladder engine requires a repository")
	}
	e := &Engine{
		repo:           repo,
		notifier:       nopNotifier{},
		challengeRange: DefaultChallengeRange,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) ChallengeRange() int {
	return e.challengeRange
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	logger := log.Ctx(ctx).With().Str("component", "ladder_engine").Logger()
	return &logger
}

func (e *Engine) mutate(ctx context.Context, fn func(tx Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.InTx(ctx, fn)
}

func loadTeam(ctx context.Context, ts TeamStore, name string) (Team, error) {
	team, err := ts.GetTeam(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return Team{}, newError(ErrTeamNotFound, fmt.Sprintf("No team named %s found. Please try again.", name))
	}
	if err != nil {
		return Team{}, fmt.Errorf("load team %s: %w", name, err)
	}
	return team, nil
}

func requireRunning(ctx context.Context, ss StateStore, division Division) error {
	state, err := ss.GetDivisionState(ctx, division)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("load %s division state: %w", division, err)
	}
	if !state.Running {
		return newError(ErrLadderNotStarted, fmt.Sprintf("The %s ladder has not been started yet.", division))
	}
	return nil
}

func authorize(team Team, callerID string) error {
	if !team.HasMember(callerID) {
		return newError(ErrNotAuthorized, fmt.Sprintf("You are not a member of Team %s.", team.Name))
	}
	return nil
}

// RegisterTeam adds a team at the bottom of its division.
func (e *Engine) RegisterTeam(ctx context.Context, division Division, name string, roster []Player) (Team, error) {
	name = strings.TrimSpace(name)
	var created Team
	err := e.mutate(ctx, func(tx Tx) error {
		var err error
		created, err = registerTeam(ctx, tx, division, name, roster)
		return err
	})
	if err != nil {
		return Team{}, err
	}

	e.logger(ctx).Info().
		Str("division", division.String()).
		Str("team", name).
		Int("rank", created.Rank).
		Msg("Team registered")
	return created, nil
}

// registerTeam validates and inserts one team inside tx.
func registerTeam(ctx context.Context, tx Tx, division Division, name string, roster []Player) (Team, error) {
	if name == "" {
		return Team{}, newError(ErrInvalidTeamName, "A team name is required.")
	}
	_, err := tx.GetTeam(ctx, name)
	if err == nil {
		return Team{}, newError(ErrDuplicateTeamName, fmt.Sprintf("Team %s is already being used. Please choose another team name.", name))
	}
	if !errors.Is(err, ErrNotFound) {
		return Team{}, fmt.Errorf("check team name %s: %w", name, err)
	}

	if !division.Valid() {
		return Team{}, newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	if len(roster) != division.RosterSize() {
		return Team{}, newError(ErrWrongRosterSize, fmt.Sprintf("The %s division needs exactly %d member(s), got %d.", division, division.RosterSize(), len(roster)))
	}

	for _, p := range roster {
		teamName, err := tx.FindTeamByMember(ctx, division, p.ID)
		if err == nil {
			return Team{}, newError(ErrMemberAlreadyRostered, fmt.Sprintf("%s is already registered on Team %s in the %s division.", displayName(p), teamName, division))
		}
		if !errors.Is(err, ErrNotFound) {
			return Team{}, fmt.Errorf("check member %s: %w", p.ID, err)
		}
	}

	seen := make(map[string]struct{}, len(roster))
	members := make([]string, 0, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.ID]; dup {
			return Team{}, newError(ErrDuplicateRosterMember, fmt.Sprintf("%s appears more than once on the roster.", displayName(p)))
		}
		seen[p.ID] = struct{}{}
		members = append(members, p.ID)
	}

	count, err := tx.CountTeams(ctx, division)
	if err != nil {
		return Team{}, fmt.Errorf("count %s teams: %w", division, err)
	}
	created := Team{
		Name:     name,
		Division: division,
		Rank:     count + 1,
		Members:  members,
	}
	if err := tx.InsertTeam(ctx, created); err != nil {
		return Team{}, fmt.Errorf("insert team %s: %w", name, err)
	}

	for _, p := range roster {
		if _, err := tx.CreateMember(ctx, p.ID, displayName(p)); err != nil {
			return Team{}, fmt.Errorf("record member %s: %w", p.ID, err)
		}
		if err := tx.IncrementTeamsCount(ctx, p.ID); err != nil {
			return Team{}, fmt.Errorf("count teams for member %s: %w", p.ID, err)
		}
	}
	return created, nil
}

func displayName(p Player) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// RemoveTeam deletes a team, drops any challenge it is part of and closes the rank gap.
func (e *Engine) RemoveTeam(ctx context.Context, name string) (Team, error) {
	var removed Team
	err := e.mutate(ctx, func(tx Tx) error {
		team, err := loadTeam(ctx, tx, name)
		if err != nil {
			return err
		}
		removed = team

		if err := tx.DeleteChallengesInvolving(ctx, team.Division, team.Name); err != nil {
			return fmt.Errorf("delete challenges for %s: %w", team.Name, err)
		}
		if err := tx.DeleteTeam(ctx, team.Division, team.Name); err != nil {
			return fmt.Errorf("delete team %s: %w", team.Name, err)
		}
		return compactDivision(ctx, tx, team.Division)
	})
	if err != nil {
		return Team{}, err
	}

	e.logger(ctx).Info().
		Str("division", removed.Division.String()).
		Str("team", removed.Name).
		Int("rank", removed.Rank).
		Msg("Team removed")
	return removed, nil
}

func compactDivision(ctx context.Context, ts TeamStore, division Division) error {
	teams, err := ts.ListTeams(ctx, division)
	if err != nil {
		return fmt.Errorf("list %s teams: %w", division, err)
	}
	changes := RankChanges(teams, Compact(teams))
	if len(changes) == 0 {
		return nil
	}
	if err := ts.UpdateRanks(ctx, division, changes); err != nil {
		return fmt.Errorf("renumber %s ranks: %w", division, err)
	}
	return nil
}

// SetRank moves a team to newRank, shifting the teams in between by one.
func (e *Engine) SetRank(ctx context.Context, name string, newRank int) (RankMove, error) {
	var move RankMove
	err := e.mutate(ctx, func(tx Tx) error {
		team, err := loadTeam(ctx, tx, name)
		if err != nil {
			return err
		}
		teams, err := tx.ListTeams(ctx, team.Division)
		if err != nil {
			return fmt.Errorf("list %s teams: %w", team.Division, err)
		}
		after, err := MoveRank(teams, team.Name, newRank)
		if err != nil {
			return err
		}
		if err := CheckContiguous(after); err != nil {
			return err
		}
		if err := tx.UpdateRanks(ctx, team.Division, RankChanges(teams, after)); err != nil {
			return fmt.Errorf("update %s ranks: %w", team.Division, err)
		}
		move = RankMove{Team: team.Name, Division: team.Division, From: team.Rank, To: newRank, Standings: after}
		return nil
	})
	if err != nil {
		return RankMove{}, err
	}

	e.logger(ctx).Info().
		Str("division", move.Division.String()).
		Str("team", move.Team).
		Int("from", move.From).
		Int("to", move.To).
		Msg("Team rank overridden")
	return move, nil
}

// Challenge lets a member of challenger challenge a team ranked at most
// ChallengeRange places above it.
func (e *Engine) Challenge(ctx context.Context, callerID, challenger, challenged string) (Challenge, error) {
	return e.challenge(ctx, &callerID, challenger, challenged)
}

// AdminChallenge creates a challenge without checking the caller's roster.
func (e *Engine) AdminChallenge(ctx context.Context, challenger, challenged string) (Challenge, error) {
	return e.challenge(ctx, nil, challenger, challenged)
}

func (e *Engine) challenge(ctx context.Context, callerID *string, challengerName, challengedName string) (Challenge, error) {
	var (
		created        Challenge
		challengedTeam Team
	)
	err := e.mutate(ctx, func(tx Tx) error {
		challenger, err := loadTeam(ctx, tx, challengerName)
		if err != nil {
			return err
		}
		challenged, err := loadTeam(ctx, tx, challengedName)
		if err != nil {
			return err
		}
		if callerID != nil {
			if err := authorize(challenger, *callerID); err != nil {
				return err
			}
		}
		if challenger.Division != challenged.Division {
			return newError(ErrDivisionMismatch, fmt.Sprintf("Team %s (%s) and Team %s (%s) are not in the same division.", challenger.Name, challenger.Division, challenged.Name, challenged.Division))
		}
		division := challenger.Division
		if err := requireRunning(ctx, tx, division); err != nil {
			return err
		}
		if challenger.Name == challenged.Name {
			return newError(ErrSelfChallenge, "A team cannot challenge itself.")
		}

		cr, dr := challenger.Rank, challenged.Rank
		if dr > cr || dr < cr-e.challengeRange {
			return newError(ErrRankOutOfRange, fmt.Sprintf("Team %s (rank %d) can only challenge teams up to %d rank(s) above it; Team %s is rank %d.", challenger.Name, cr, e.challengeRange, challenged.Name, dr))
		}

		checks := []struct {
			fn   func(context.Context, Division, string) (bool, error)
			team string
			err  *Error
			msg  string
		}{
			{tx.IsChallenged, challenged.Name, ErrTargetAlreadyChallenged, "Team %s has already been challenged by another team."},
			{tx.IsChallenger, challenged.Name, ErrTargetAlreadyChallenging, "Team %s has already sent out a challenge."},
			{tx.IsChallenged, challenger.Name, ErrSelfAlreadyChallenged, "Your team %s has already been challenged and must finish that match first."},
			{tx.IsChallenger, challenger.Name, ErrSelfAlreadyChallenging, "Your team %s already has a pending challenge."},
		}
		for _, c := range checks {
			busy, err := c.fn(ctx, division, c.team)
			if err != nil {
				return fmt.Errorf("check challenges for %s: %w", c.team, err)
			}
			if busy {
				return newError(c.err, fmt.Sprintf(c.msg, c.team))
			}
		}

		created = Challenge{
			MatchID:    challenger.Name,
			Division:   division,
			Challenger: challenger.Name,
			Challenged: challenged.Name,
			Status:     ChallengeStatusPending,
		}
		if err := tx.CreateChallenge(ctx, created); err != nil {
			return fmt.Errorf("create challenge %s: %w", challenger.Name, err)
		}
		challengedTeam = challenged
		return nil
	})
	if err != nil {
		return Challenge{}, err
	}

	e.logger(ctx).Info().
		Str("division", created.Division.String()).
		Str("challenger", created.Challenger).
		Str("challenged", created.Challenged).
		Bool("admin", callerID == nil).
		Msg("Challenge created")

	e.notifier.Notify(ctx, Notification{
		Event:    EventChallengeIssued,
		Division: created.Division,
		Team:     challengedTeam.Name,
		Members:  challengedTeam.Members,
		Subject:  fmt.Sprintf("Team %s has been challenged", challengedTeam.Name),
		Message:  fmt.Sprintf("Team %s has challenged Team %s in the %s division.", created.Challenger, created.Challenged, created.Division),
	})
	return created, nil
}

// CancelChallenge withdraws the pending challenge sent by challenger.
func (e *Engine) CancelChallenge(ctx context.Context, callerID, challenger string) (Challenge, error) {
	return e.cancelChallenge(ctx, &callerID, challenger)
}

// AdminCancelChallenge withdraws a challenge without checking the caller's roster.
func (e *Engine) AdminCancelChallenge(ctx context.Context, challenger string) (Challenge, error) {
	return e.cancelChallenge(ctx, nil, challenger)
}

func (e *Engine) cancelChallenge(ctx context.Context, callerID *string, challengerName string) (Challenge, error) {
	var (
		cancelled Challenge
		opponent  Team
	)
	err := e.mutate(ctx, func(tx Tx) error {
		team, err := loadTeam(ctx, tx, challengerName)
		if err != nil {
			return err
		}
		if callerID != nil {
			if err := authorize(team, *callerID); err != nil {
				return err
			}
		}
		ch, err := tx.GetChallenge(ctx, team.Division, team.Name)
		if errors.Is(err, ErrNotFound) {
			return newError(ErrNoChallengeFound, fmt.Sprintf("No challenge was found where Team %s is the challenger.", team.Name))
		}
		if err != nil {
			return fmt.Errorf("load challenge %s: %w", team.Name, err)
		}
		if err := tx.DeleteChallenge(ctx, team.Division, team.Name); err != nil {
			return fmt.Errorf("delete challenge %s: %w", team.Name, err)
		}
		cancelled = ch
		opponent, err = tx.GetTeam(ctx, ch.Challenged)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load team %s: %w", ch.Challenged, err)
		}
		return nil
	})
	if err != nil {
		return Challenge{}, err
	}

	e.logger(ctx).Info().
		Str("division", cancelled.Division.String()).
		Str("challenger", cancelled.Challenger).
		Str("challenged", cancelled.Challenged).
		Bool("admin", callerID == nil).
		Msg("Challenge cancelled")

	if opponent.Name != "" {
		e.notifier.Notify(ctx, Notification{
			Event:    EventChallengeCancelled,
			Division: cancelled.Division,
			Team:     opponent.Name,
			Members:  opponent.Members,
			Subject:  fmt.Sprintf("Challenge from Team %s cancelled", cancelled.Challenger),
			Message:  fmt.Sprintf("Team %s has cancelled its challenge against Team %s.", cancelled.Challenger, cancelled.Challenged),
		})
	}
	return cancelled, nil
}

// ReportWin resolves the pending challenge of winner in its favour.
func (e *Engine) ReportWin(ctx context.Context, callerID, winner string) (MatchReport, error) {
	return e.reportWin(ctx, &callerID, winner)
}

// AdminReportWin resolves a challenge without checking the caller's roster.
func (e *Engine) AdminReportWin(ctx context.Context, winner string) (MatchReport, error) {
	return e.reportWin(ctx, nil, winner)
}

func (e *Engine) reportWin(ctx context.Context, callerID *string, winnerName string) (MatchReport, error) {
	var (
		report        MatchReport
		winner, loser Team
	)
	err := e.mutate(ctx, func(tx Tx) error {
		var err error
		winner, err = loadTeam(ctx, tx, winnerName)
		if err != nil {
			return err
		}
		division := winner.Division
		if err := requireRunning(ctx, tx, division); err != nil {
			return err
		}
		if callerID != nil {
			if err := authorize(winner, *callerID); err != nil {
				return err
			}
		}

		opponentName, err := tx.FindOpponent(ctx, division, winner.Name)
		if errors.Is(err, ErrNotFound) {
			return newError(ErrNoChallengeFound, fmt.Sprintf("Team %s has no pending challenge to report.", winner.Name))
		}
		if err != nil {
			return fmt.Errorf("find opponent of %s: %w", winner.Name, err)
		}
		loser, err = loadTeam(ctx, tx, opponentName)
		if err != nil {
			return err
		}
		wasChallenger, err := tx.IsChallenger(ctx, division, winner.Name)
		if err != nil {
			return fmt.Errorf("check challenges for %s: %w", winner.Name, err)
		}

		report = MatchReport{
			Division:         division,
			Winner:           winner.Name,
			Loser:            loser.Name,
			WinnerRankBefore: winner.Rank,
			LoserRankBefore:  loser.Rank,
			WinnerRankAfter:  winner.Rank,
			LoserRankAfter:   loser.Rank,
		}

		teams, err := tx.ListTeams(ctx, division)
		if err != nil {
			return fmt.Errorf("list %s teams: %w", division, err)
		}
		standings := teams
		matchID := loser.Name
		report.Case = ChallengedWon
		if wasChallenger {
			report.Case = ChallengerWon
			matchID = winner.Name
			standings, err = SwapOnChallengerWin(teams, winner.Name, loser.Name)
			if err != nil {
				return err
			}
			if err := CheckContiguous(standings); err != nil {
				return err
			}
			if err := tx.UpdateRanks(ctx, division, RankChanges(teams, standings)); err != nil {
				return fmt.Errorf("update %s ranks: %w", division, err)
			}
			report.WinnerRankAfter = standings[indexOf(standings, winner.Name)].Rank
			report.LoserRankAfter = standings[indexOf(standings, loser.Name)].Rank
		}

		winner.Wins++
		winner.WinStreak++
		winner.LossStreak = 0
		loser.Losses++
		loser.LossStreak++
		loser.WinStreak = 0
		for _, t := range []Team{winner, loser} {
			if err := tx.UpdateRecord(ctx, t); err != nil {
				return fmt.Errorf("update record of %s: %w", t.Name, err)
			}
		}
		if err := tx.DeleteChallenge(ctx, division, matchID); err != nil {
			return fmt.Errorf("delete challenge %s: %w", matchID, err)
		}

		if err := recordMatchStats(ctx, tx, division, winner.Members, true); err != nil {
			return err
		}
		if err := recordMatchStats(ctx, tx, division, loser.Members, false); err != nil {
			return err
		}

		report.Standings = applyRecords(standings, winner, loser)
		return nil
	})
	if err != nil {
		return MatchReport{}, err
	}

	e.logger(ctx).Info().
		Str("division", report.Division.String()).
		Str("case", string(report.Case)).
		Str("winner", report.Winner).
		Str("loser", report.Loser).
		Int("winner_rank", report.WinnerRankAfter).
		Int("loser_rank", report.LoserRankAfter).
		Bool("admin", callerID == nil).
		Msg("Match reported")

	message := fmt.Sprintf("Team %s defeated Team %s in the %s division.", report.Winner, report.Loser, report.Division)
	for _, t := range []Team{winner, loser} {
		e.notifier.Notify(ctx, Notification{
			Event:    EventMatchReported,
			Division: report.Division,
			Team:     t.Name,
			Members:  t.Members,
			Subject:  fmt.Sprintf("Result reported: %s vs %s", report.Winner, report.Loser),
			Message:  message,
		})
	}
	return report, nil
}

func recordMatchStats(ctx context.Context, ms MemberStore, division Division, members []string, won bool) error {
	for _, id := range members {
		if err := ms.IncrementParticipation(ctx, id); err != nil {
			return fmt.Errorf("record participation of %s: %w", id, err)
		}
		if err := ms.RecordDivisionResult(ctx, id, division, won); err != nil {
			return fmt.Errorf("record result of %s: %w", id, err)
		}
	}
	return nil
}

func applyRecords(standings []Team, updated ...Team) []Team {
	out := make([]Team, len(standings))
	copy(out, standings)
	for _, u := range updated {
		if i := indexOf(out, u.Name); i >= 0 {
			rank := out[i].Rank
			out[i] = u
			out[i].Rank = rank
		}
	}
	return out
}

func (e *Engine) AddWin(ctx context.Context, name string) (Team, error) {
	return e.adjustRecord(ctx, name, 1, 0)
}

func (e *Engine) SubtractWin(ctx context.Context, name string) (Team, error) {
	return e.adjustRecord(ctx, name, -1, 0)
}

func (e *Engine) AddLoss(ctx context.Context, name string) (Team, error) {
	return e.adjustRecord(ctx, name, 0, 1)
}

func (e *Engine) SubtractLoss(ctx context.Context, name string) (Team, error) {
	return e.adjustRecord(ctx, name, 0, -1)
}

func (e *Engine) adjustRecord(ctx context.Context, name string, deltaWins, deltaLosses int) (Team, error) {
	var team Team
	err := e.mutate(ctx, func(tx Tx) error {
		var err error
		team, err = loadTeam(ctx, tx, name)
		if err != nil {
			return err
		}
		if team.Wins+deltaWins < 0 || team.Losses+deltaLosses < 0 {
			return newError(ErrRecordUnderflow, fmt.Sprintf("Team %s has %d win(s) and %d loss(es); records cannot go below zero.", team.Name, team.Wins, team.Losses))
		}
		team.Wins += deltaWins
		team.Losses += deltaLosses
		if err := tx.UpdateRecord(ctx, team); err != nil {
			return fmt.Errorf("update record of %s: %w", team.Name, err)
		}
		return nil
	})
	if err != nil {
		return Team{}, err
	}

	e.logger(ctx).Info().
		Str("team", team.Name).
		Int("wins", team.Wins).
		Int("losses", team.Losses).
		Msg("Team record adjusted")
	return team, nil
}

// StartLadder opens a division for challenges and reports.
func (e *Engine) StartLadder(ctx context.Context, division Division) error {
	if !division.Valid() {
		return newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	err := e.mutate(ctx, func(tx Tx) error {
		state, err := tx.GetDivisionState(ctx, division)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load %s division state: %w", division, err)
		}
		if state.Running {
			return newError(ErrAlreadyRunning, fmt.Sprintf("The %s ladder is already running.", division))
		}
		if err := tx.SetRunning(ctx, division, true); err != nil {
			return fmt.Errorf("start %s ladder: %w", division, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.logger(ctx).Info().Str("division", division.String()).Msg("Ladder started")
	return nil
}

// EndLadder closes a division, credits the champion and wipes its teams and
// challenges. The final standings are returned.
func (e *Engine) EndLadder(ctx context.Context, division Division) (LadderSummary, error) {
	if !division.Valid() {
		return LadderSummary{}, newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	summary := LadderSummary{Division: division}
	err := e.mutate(ctx, func(tx Tx) error {
		state, err := tx.GetDivisionState(ctx, division)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load %s division state: %w", division, err)
		}
		if !state.Running {
			return newError(ErrNotRunning, fmt.Sprintf("The %s ladder is not running.", division))
		}

		teams, err := tx.ListTeams(ctx, division)
		if err != nil {
			return fmt.Errorf("list %s teams: %w", division, err)
		}
		summary.Standings = teams
		if len(teams) > 0 {
			champion := teams[0]
			summary.Champion = &champion
			for _, id := range champion.Members {
				if err := tx.AddChampionTitle(ctx, id, division); err != nil {
					return fmt.Errorf("award title to %s: %w", id, err)
				}
			}
		}

		if err := tx.SetRunning(ctx, division, false); err != nil {
			return fmt.Errorf("stop %s ladder: %w", division, err)
		}
		if err := tx.DeleteChallenges(ctx, division); err != nil {
			return fmt.Errorf("clear %s challenges: %w", division, err)
		}
		if err := tx.DeleteTeams(ctx, division); err != nil {
			return fmt.Errorf("clear %s teams: %w", division, err)
		}
		return nil
	})
	if err != nil {
		return LadderSummary{}, err
	}

	event := e.logger(ctx).Info().Str("division", division.String()).Int("team_count", len(summary.Standings))
	if summary.Champion != nil {
		event = event.Str("champion", summary.Champion.Name)
	}
	event.Msg("Ladder ended")
	return summary, nil
}

// CreateTestTeams registers placeholder teams so a division can be exercised
// without real players.
func (e *Engine) CreateTestTeams(ctx context.Context, division Division) ([]Team, error) {
	if !division.Valid() {
		return nil, newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	var teams []Team
	err := e.mutate(ctx, func(tx Tx) error {
		teams = make([]Team, 0, testTeamCount)
		for i := 1; i <= testTeamCount; i++ {
			name := fmt.Sprintf("Test%s-%d", division, i)
			roster := make([]Player, 0, division.RosterSize())
			for m := 1; m <= division.RosterSize(); m++ {
				id := fmt.Sprintf("test-%s-%d-%d", division, i, m)
				roster = append(roster, Player{ID: id, DisplayName: id})
			}
			team, err := registerTeam(ctx, tx, division, name, roster)
			if err != nil {
				return err
			}
			teams = append(teams, team)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger(ctx).Info().
		Str("division", division.String()).
		Int("teams", len(teams)).
		Msg("Test teams registered")
	return teams, nil
}

func (e *Engine) SetStandingsChannel(ctx context.Context, division Division, channelID string) error {
	return e.bindChannel(ctx, division, channelID, func(tx Tx) error {
		return tx.SetStandingsChannel(ctx, division, channelID)
	})
}

func (e *Engine) ClearStandingsChannel(ctx context.Context, division Division) error {
	return e.bindChannel(ctx, division, "", func(tx Tx) error {
		return tx.SetStandingsChannel(ctx, division, "")
	})
}

func (e *Engine) SetChallengesChannel(ctx context.Context, division Division, channelID string) error {
	return e.bindChannel(ctx, division, channelID, func(tx Tx) error {
		return tx.SetChallengesChannel(ctx, division, channelID)
	})
}

func (e *Engine) ClearChallengesChannel(ctx context.Context, division Division) error {
	return e.bindChannel(ctx, division, "", func(tx Tx) error {
		return tx.SetChallengesChannel(ctx, division, "")
	})
}

func (e *Engine) bindChannel(ctx context.Context, division Division, channelID string, fn func(tx Tx) error) error {
	if !division.Valid() {
		return newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	if err := e.mutate(ctx, fn); err != nil {
		return fmt.Errorf("bind %s channel: %w", division, err)
	}
	e.logger(ctx).Info().Str("division", division.String()).Str("channel_id", channelID).Msg("Board channel updated")
	return nil
}

// LinkEmail stores a contact address used by email notifications.
func (e *Engine) LinkEmail(ctx context.Context, player Player, email string) error {
	raw := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return newError(ErrInvalidEmail, fmt.Sprintf("%q is not an email address.", raw))
	}
	email = addr.Address
	return e.mutate(ctx, func(tx Tx) error {
		if _, err := tx.CreateMember(ctx, player.ID, displayName(player)); err != nil {
			return fmt.Errorf("record member %s: %w", player.ID, err)
		}
		if err := tx.SetMemberEmail(ctx, player.ID, email); err != nil {
			return fmt.Errorf("set email of %s: %w", player.ID, err)
		}
		return nil
	})
}

// Standings lists a division ordered by rank.
func (e *Engine) Standings(ctx context.Context, division Division) ([]Team, error) {
	if !division.Valid() {
		return nil, newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	var teams []Team
	err := e.repo.View(ctx, func(tx Tx) error {
		var err error
		teams, err = tx.ListTeams(ctx, division)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list %s teams: %w", division, err)
	}
	return teams, nil
}

// Challenges lists a division's pending challenges in creation order.
func (e *Engine) Challenges(ctx context.Context, division Division) ([]Challenge, error) {
	if !division.Valid() {
		return nil, newError(ErrInvalidDivision, "Please enter 1v1, 2v2 or 3v3 for the division type and try again.")
	}
	var challenges []Challenge
	err := e.repo.View(ctx, func(tx Tx) error {
		var err error
		challenges, err = tx.ListChallenges(ctx, division)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list %s challenges: %w", division, err)
	}
	return challenges, nil
}

func (e *Engine) DivisionStates(ctx context.Context) ([]DivisionState, error) {
	var states []DivisionState
	err := e.repo.View(ctx, func(tx Tx) error {
		var err error
		states, err = tx.ListDivisionStates(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list division states: %w", err)
	}
	return states, nil
}

func (e *Engine) Team(ctx context.Context, name string) (Team, error) {
	var team Team
	err := e.repo.View(ctx, func(tx Tx) error {
		var err error
		team, err = loadTeam(ctx, tx, name)
		return err
	})
	return team, err
}

func (e *Engine) MemberStats(ctx context.Context, playerID string) (Member, error) {
	var m Member
	err := e.repo.View(ctx, func(tx Tx) error {
		var err error
		m, err = tx.GetMember(ctx, playerID)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return Member{}, newError(ErrMemberNotFound, "No stats recorded yet. Join a team to start tracking.")
	}
	if err != nil {
		return Member{}, fmt.Errorf("load member %s: %w", playerID, err)
	}
	return m, nil
}
