package ladder_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/codr1/Ladderbot/internal/ladder"
	"github.com/codr1/Ladderbot/internal/store"
	"github.com/codr1/Ladderbot/internal/testutil"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ladder.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n ladder.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) events() []ladder.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ladder.Notification(nil), r.sent...)
}

type backend struct {
	name string
	repo func(t *testing.T) ladder.Repository
}

var backends = []backend{
	{name: "memory", repo: func(t *testing.T) ladder.Repository { return store.NewMemoryStore() }},
	{name: "sqlite", repo: func(t *testing.T) ladder.Repository { return testutil.NewTestStore(t) }},
}

// forEachBackend runs fn once per storage backend with a fresh engine.
func forEachBackend(t *testing.T, fn func(t *testing.T, e *ladder.Engine, n *recordingNotifier)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			n := &recordingNotifier{}
			e, err := ladder.NewEngine(b.repo(t), ladder.WithNotifier(n))
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}
			fn(t, e, n)
		})
	}
}

func player(id string) ladder.Player {
	return ladder.Player{ID: id, DisplayName: "Player " + id}
}

func mustRegister(t *testing.T, e *ladder.Engine, division ladder.Division, name string, ids ...string) ladder.Team {
	t.Helper()
	roster := make([]ladder.Player, 0, len(ids))
	for _, id := range ids {
		roster = append(roster, player(id))
	}
	team, err := e.RegisterTeam(context.Background(), division, name, roster)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return team
}

// seedFive registers A..E in 1v1, each with member m-<name>, and starts the ladder.
func seedFive(t *testing.T, e *ladder.Engine) {
	t.Helper()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		mustRegister(t, e, ladder.Division1v1, name, "m-"+name)
	}
	if err := e.StartLadder(context.Background(), ladder.Division1v1); err != nil {
		t.Fatalf("start ladder: %v", err)
	}
}

func ranks(t *testing.T, e *ladder.Engine, division ladder.Division) string {
	t.Helper()
	teams, err := e.Standings(context.Background(), division)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	out := ""
	for _, team := range teams {
		out += fmt.Sprintf("%s%d ", team.Name, team.Rank)
	}
	return out
}

func TestRegisterTeamAssignsBottomRank(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		alpha := mustRegister(t, e, ladder.Division1v1, "Alpha", "M1")
		bravo := mustRegister(t, e, ladder.Division1v1, "Bravo", "M2")
		if alpha.Rank != 1 || bravo.Rank != 2 {
			t.Fatalf("expected ranks 1 and 2, got %d and %d", alpha.Rank, bravo.Rank)
		}

		_, err := e.RegisterTeam(ctx, ladder.Division2v2, "Alpha", []ladder.Player{player("M3"), player("M4")})
		if !errors.Is(err, ladder.ErrDuplicateTeamName) {
			t.Fatalf("expected ErrDuplicateTeamName, got %v", err)
		}

		team, err := e.Team(ctx, "Bravo")
		if err != nil {
			t.Fatalf("load team: %v", err)
		}
		if len(team.Members) != 1 || team.Members[0] != "M2" {
			t.Fatalf("unexpected roster %v", team.Members)
		}

		stats, err := e.MemberStats(ctx, "M1")
		if err != nil {
			t.Fatalf("member stats: %v", err)
		}
		if stats.TeamsCount != 1 || stats.DisplayName != "Player M1" {
			t.Fatalf("unexpected member record %+v", stats)
		}
	})
}

func TestRegisterTeamValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		mustRegister(t, e, ladder.Division2v2, "Pair", "p1", "p2")

		tests := []struct {
			name     string
			division ladder.Division
			team     string
			roster   []ladder.Player
			want     error
		}{
			{"blank name", ladder.Division1v1, "  ", []ladder.Player{player("x")}, ladder.ErrInvalidTeamName},
			{"duplicate beats bad division", ladder.Division("5v5"), "Pair", nil, ladder.ErrDuplicateTeamName},
			{"unknown division", ladder.Division("5v5"), "New", []ladder.Player{player("x")}, ladder.ErrInvalidDivision},
			{"roster too small", ladder.Division3v3, "Trio", []ladder.Player{player("x")}, ladder.ErrWrongRosterSize},
			{"member on another team", ladder.Division2v2, "Other", []ladder.Player{player("p2"), player("x")}, ladder.ErrMemberAlreadyRostered},
			{"same player twice", ladder.Division2v2, "Twins", []ladder.Player{player("y"), player("y")}, ladder.ErrDuplicateRosterMember},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.RegisterTeam(ctx, tt.division, tt.team, tt.roster)
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
			})
		}

		// A player may hold one team per division.
		mustRegister(t, e, ladder.Division1v1, "Solo", "p1")
		if got := ranks(t, e, ladder.Division2v2); got != "Pair1 " {
			t.Fatalf("failed registrations must not change standings, got %q", got)
		}
	})
}

func TestChallengerWinSwapsRanks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, n *recordingNotifier) {
		ctx := context.Background()
		seedFive(t, e)

		ch, err := e.Challenge(ctx, "m-E", "E", "C")
		if err != nil {
			t.Fatalf("challenge: %v", err)
		}
		if ch.MatchID != "E" || ch.Status != ladder.ChallengeStatusPending {
			t.Fatalf("unexpected challenge %+v", ch)
		}

		report, err := e.ReportWin(ctx, "m-E", "E")
		if err != nil {
			t.Fatalf("report win: %v", err)
		}
		if report.Case != ladder.ChallengerWon {
			t.Fatalf("expected challenger_won, got %s", report.Case)
		}
		if report.WinnerRankBefore != 5 || report.WinnerRankAfter != 3 || report.LoserRankAfter != 5 {
			t.Fatalf("unexpected report %+v", report)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "A1 B2 E3 D4 C5 " {
			t.Fatalf("unexpected standings %q", got)
		}

		challenges, err := e.Challenges(ctx, ladder.Division1v1)
		if err != nil {
			t.Fatalf("challenges: %v", err)
		}
		if len(challenges) != 0 {
			t.Fatalf("expected challenge removed, got %+v", challenges)
		}

		winner, _ := e.Team(ctx, "E")
		loser, _ := e.Team(ctx, "C")
		if winner.Wins != 1 || winner.WinStreak != 1 || loser.Losses != 1 || loser.LossStreak != 1 {
			t.Fatalf("unexpected records winner=%+v loser=%+v", winner, loser)
		}

		stats, err := e.MemberStats(ctx, "m-E")
		if err != nil {
			t.Fatalf("member stats: %v", err)
		}
		if stats.ParticipationCount != 1 || stats.Records[ladder.Division1v1].Wins != 1 {
			t.Fatalf("unexpected member stats %+v", stats)
		}

		events := n.events()
		if len(events) != 3 {
			t.Fatalf("expected 3 notifications, got %d", len(events))
		}
		if events[0].Event != ladder.EventChallengeIssued || events[0].Team != "C" {
			t.Fatalf("unexpected first notification %+v", events[0])
		}
		if events[1].Event != ladder.EventMatchReported || events[2].Event != ladder.EventMatchReported {
			t.Fatalf("expected match notifications, got %+v", events[1:])
		}
	})
}

func TestChallengedWinKeepsRanks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		seedFive(t, e)

		if _, err := e.Challenge(ctx, "m-E", "E", "C"); err != nil {
			t.Fatalf("challenge: %v", err)
		}
		report, err := e.ReportWin(ctx, "m-C", "C")
		if err != nil {
			t.Fatalf("report win: %v", err)
		}
		if report.Case != ladder.ChallengedWon || report.WinnerRankAfter != 3 || report.LoserRankAfter != 5 {
			t.Fatalf("unexpected report %+v", report)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "A1 B2 C3 D4 E5 " {
			t.Fatalf("ranks must not move, got %q", got)
		}

		e5, _ := e.Team(ctx, "E")
		c3, _ := e.Team(ctx, "C")
		if e5.Losses != 1 || c3.Wins != 1 {
			t.Fatalf("unexpected records E=%+v C=%+v", e5, c3)
		}

		challenges, _ := e.Challenges(ctx, ladder.Division1v1)
		if len(challenges) != 0 {
			t.Fatalf("expected challenge removed, got %+v", challenges)
		}

		if _, err := e.ReportWin(ctx, "m-C", "C"); !errors.Is(err, ladder.ErrNoChallengeFound) {
			t.Fatalf("second report should find no challenge, got %v", err)
		}
	})
}

func TestChallengeRules(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		mustRegister(t, e, ladder.Division2v2, "Duo", "d1", "d2")
		mustRegister(t, e, ladder.Division2v2, "Duo2", "d3", "d4")

		if _, err := e.AdminChallenge(ctx, "Duo2", "Duo"); !errors.Is(err, ladder.ErrLadderNotStarted) {
			t.Fatalf("expected ErrLadderNotStarted, got %v", err)
		}

		seedFive(t, e)

		tests := []struct {
			name       string
			caller     string
			challenger string
			challenged string
			want       error
		}{
			{"unknown challenger", "m-E", "Z", "C", ladder.ErrTeamNotFound},
			{"unknown target", "m-E", "E", "Z", ladder.ErrTeamNotFound},
			{"not on roster", "m-A", "E", "C", ladder.ErrNotAuthorized},
			{"other division", "m-E", "E", "Duo", ladder.ErrDivisionMismatch},
			{"self", "m-E", "E", "E", ladder.ErrSelfChallenge},
			{"three above", "m-E", "E", "B", ladder.ErrRankOutOfRange},
			{"below", "m-C", "C", "D", ladder.ErrRankOutOfRange},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.Challenge(ctx, tt.caller, tt.challenger, tt.challenged)
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
			})
		}

		if _, err := e.Challenge(ctx, "m-E", "E", "D"); err != nil {
			t.Fatalf("one above: %v", err)
		}

		if _, err := e.AdminChallenge(ctx, "B", "A"); err != nil {
			t.Fatalf("admin challenge: %v", err)
		}
		busy := []struct {
			name       string
			challenger string
			challenged string
			want       error
		}{
			{"target already challenged", "C", "A", ladder.ErrTargetAlreadyChallenged},
			{"target is challenging", "C", "B", ladder.ErrTargetAlreadyChallenging},
			{"challenger is challenged", "D", "C", ladder.ErrSelfAlreadyChallenged},
			{"challenger is challenging", "E", "C", ladder.ErrSelfAlreadyChallenging},
		}
		for _, tt := range busy {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.AdminChallenge(ctx, tt.challenger, tt.challenged)
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
			})
		}

		challenges, err := e.Challenges(ctx, ladder.Division1v1)
		if err != nil {
			t.Fatalf("challenges: %v", err)
		}
		if len(challenges) != 2 || challenges[0].Challenger != "E" || challenges[1].Challenger != "B" {
			t.Fatalf("unexpected challenges %+v", challenges)
		}
	})
}

func TestReportWinRejectionsLeaveStateUntouched(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, n *recordingNotifier) {
		ctx := context.Background()
		mustRegister(t, e, ladder.Division2v2, "Duo", "d1", "d2")
		seedFive(t, e)
		if _, err := e.Challenge(ctx, "m-E", "E", "D"); err != nil {
			t.Fatalf("challenge: %v", err)
		}
		sentBefore := len(n.events())

		tests := []struct {
			name   string
			caller string
			winner string
			want   error
		}{
			{"unknown winner", "m-E", "Z", ladder.ErrTeamNotFound},
			{"ladder not running", "d1", "Duo", ladder.ErrLadderNotStarted},
			{"caller not on roster", "m-A", "E", ladder.ErrNotAuthorized},
			{"opponent reports for winner", "m-D", "E", ladder.ErrNotAuthorized},
			{"no pending challenge", "m-A", "A", ladder.ErrNoChallengeFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.ReportWin(ctx, tt.caller, tt.winner)
				if !errors.Is(err, tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, err)
				}
			})
		}
		if _, err := e.AdminReportWin(ctx, "Z"); !errors.Is(err, ladder.ErrTeamNotFound) {
			t.Fatalf("expected ErrTeamNotFound from admin report, got %v", err)
		}

		if got := ranks(t, e, ladder.Division1v1); got != "A1 B2 C3 D4 E5 " {
			t.Fatalf("failed reports must not move ranks, got %q", got)
		}
		for _, name := range []string{"D", "E"} {
			team, err := e.Team(ctx, name)
			if err != nil {
				t.Fatalf("load %s: %v", name, err)
			}
			if team.Wins != 0 || team.Losses != 0 || team.WinStreak != 0 || team.LossStreak != 0 {
				t.Fatalf("failed reports must not touch records, got %+v", team)
			}
		}
		challenges, err := e.Challenges(ctx, ladder.Division1v1)
		if err != nil {
			t.Fatalf("challenges: %v", err)
		}
		if len(challenges) != 1 || challenges[0].Challenger != "E" || challenges[0].Challenged != "D" {
			t.Fatalf("pending challenge must survive failed reports, got %+v", challenges)
		}
		if got := len(n.events()); got != sentBefore {
			t.Fatalf("failed reports must not notify, got %d new notifications", got-sentBefore)
		}
	})
}

func TestChallengeRangeOption(t *testing.T) {
	e, err := ladder.NewEngine(store.NewMemoryStore(), ladder.WithChallengeRange(4))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	seedFive(t, e)
	if _, err := e.Challenge(context.Background(), "m-E", "E", "A"); err != nil {
		t.Fatalf("range 4 should allow rank 5 to challenge rank 1: %v", err)
	}
	if e.ChallengeRange() != 4 {
		t.Fatalf("expected range 4, got %d", e.ChallengeRange())
	}
}

func TestCancelChallenge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, n *recordingNotifier) {
		ctx := context.Background()
		seedFive(t, e)
		if _, err := e.Challenge(ctx, "m-D", "D", "B"); err != nil {
			t.Fatalf("challenge: %v", err)
		}

		if _, err := e.CancelChallenge(ctx, "m-B", "B"); !errors.Is(err, ladder.ErrNoChallengeFound) {
			t.Fatalf("challenged team cannot cancel as challenger, got %v", err)
		}
		if _, err := e.CancelChallenge(ctx, "m-A", "D"); !errors.Is(err, ladder.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}

		cancelled, err := e.CancelChallenge(ctx, "m-D", "D")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Challenged != "B" {
			t.Fatalf("unexpected cancelled challenge %+v", cancelled)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "A1 B2 C3 D4 E5 " {
			t.Fatalf("cancel must not move ranks, got %q", got)
		}

		events := n.events()
		last := events[len(events)-1]
		if last.Event != ladder.EventChallengeCancelled || last.Team != "B" {
			t.Fatalf("unexpected notification %+v", last)
		}

		if _, err := e.AdminCancelChallenge(ctx, "D"); !errors.Is(err, ladder.ErrNoChallengeFound) {
			t.Fatalf("expected ErrNoChallengeFound after cancel, got %v", err)
		}
		// Both teams are free again.
		if _, err := e.Challenge(ctx, "m-C", "C", "B"); err != nil {
			t.Fatalf("rechallenge: %v", err)
		}
	})
}

func TestSetRank(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		seedFive(t, e)

		move, err := e.SetRank(ctx, "E", 2)
		if err != nil {
			t.Fatalf("set rank: %v", err)
		}
		if move.From != 5 || move.To != 2 {
			t.Fatalf("unexpected move %+v", move)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "A1 E2 B3 C4 D5 " {
			t.Fatalf("unexpected standings %q", got)
		}

		if _, err := e.SetRank(ctx, "E", 2); !errors.Is(err, ladder.ErrRankUnchanged) {
			t.Fatalf("expected ErrRankUnchanged, got %v", err)
		}
		if _, err := e.SetRank(ctx, "E", 6); !errors.Is(err, ladder.ErrRankOutOfBounds) {
			t.Fatalf("expected ErrRankOutOfBounds, got %v", err)
		}
		if _, err := e.SetRank(ctx, "Nope", 1); !errors.Is(err, ladder.ErrTeamNotFound) {
			t.Fatalf("expected ErrTeamNotFound, got %v", err)
		}
	})
}

func TestRemoveTeamCompactsRanks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		for _, name := range []string{"A", "B", "C"} {
			mustRegister(t, e, ladder.Division1v1, name, "m-"+name)
		}
		if err := e.StartLadder(ctx, ladder.Division1v1); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := e.Challenge(ctx, "m-C", "C", "B"); err != nil {
			t.Fatalf("challenge: %v", err)
		}

		removed, err := e.RemoveTeam(ctx, "B")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if removed.Rank != 2 {
			t.Fatalf("expected removed rank 2, got %d", removed.Rank)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "A1 C2 " {
			t.Fatalf("unexpected standings %q", got)
		}
		challenges, _ := e.Challenges(ctx, ladder.Division1v1)
		if len(challenges) != 0 {
			t.Fatalf("challenges involving removed team must go, got %+v", challenges)
		}
		if _, err := e.RemoveTeam(ctx, "B"); !errors.Is(err, ladder.ErrTeamNotFound) {
			t.Fatalf("expected ErrTeamNotFound, got %v", err)
		}

		// The roster slot frees up.
		mustRegister(t, e, ladder.Division1v1, "B2", "m-B")
	})
}

func TestRecordAdjustments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		mustRegister(t, e, ladder.Division1v1, "A", "m-A")

		if _, err := e.SubtractWin(ctx, "A"); !errors.Is(err, ladder.ErrRecordUnderflow) {
			t.Fatalf("expected ErrRecordUnderflow, got %v", err)
		}
		if _, err := e.AddWin(ctx, "A"); err != nil {
			t.Fatalf("add win: %v", err)
		}
		if _, err := e.AddLoss(ctx, "A"); err != nil {
			t.Fatalf("add loss: %v", err)
		}
		team, err := e.SubtractLoss(ctx, "A")
		if err != nil {
			t.Fatalf("subtract loss: %v", err)
		}
		if team.Wins != 1 || team.Losses != 0 {
			t.Fatalf("unexpected record %+v", team)
		}
		if team.Rank != 1 {
			t.Fatalf("record edits must not move rank, got %d", team.Rank)
		}
	})
}

func TestLadderLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		if _, err := e.EndLadder(ctx, ladder.Division3v3); !errors.Is(err, ladder.ErrNotRunning) {
			t.Fatalf("expected ErrNotRunning, got %v", err)
		}

		teams, err := e.CreateTestTeams(ctx, ladder.Division3v3)
		if err != nil {
			t.Fatalf("create test teams: %v", err)
		}
		if len(teams) != 5 || len(teams[4].Members) != 3 || teams[4].Rank != 5 {
			t.Fatalf("unexpected test teams %+v", teams)
		}

		if err := e.StartLadder(ctx, ladder.Division3v3); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := e.StartLadder(ctx, ladder.Division3v3); !errors.Is(err, ladder.ErrAlreadyRunning) {
			t.Fatalf("expected ErrAlreadyRunning, got %v", err)
		}
		if _, err := e.AdminChallenge(ctx, teams[1].Name, teams[0].Name); err != nil {
			t.Fatalf("challenge: %v", err)
		}

		summary, err := e.EndLadder(ctx, ladder.Division3v3)
		if err != nil {
			t.Fatalf("end: %v", err)
		}
		if summary.Champion == nil || summary.Champion.Name != teams[0].Name || len(summary.Standings) != 5 {
			t.Fatalf("unexpected summary %+v", summary)
		}

		left, _ := e.Standings(ctx, ladder.Division3v3)
		challenges, _ := e.Challenges(ctx, ladder.Division3v3)
		if len(left) != 0 || len(challenges) != 0 {
			t.Fatalf("ending must wipe the division, got %d teams and %d challenges", len(left), len(challenges))
		}

		stats, err := e.MemberStats(ctx, teams[0].Members[0])
		if err != nil {
			t.Fatalf("member stats: %v", err)
		}
		if stats.Records[ladder.Division3v3].ChampionTitles != 1 {
			t.Fatalf("expected a champion title, got %+v", stats.Records)
		}

		states, err := e.DivisionStates(ctx)
		if err != nil {
			t.Fatalf("division states: %v", err)
		}
		for _, st := range states {
			if st.Running {
				t.Fatalf("no division should be running, got %+v", st)
			}
		}
	})
}

func TestChannelsAndEmail(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		if err := e.SetStandingsChannel(ctx, ladder.Division2v2, "chan-1"); err != nil {
			t.Fatalf("set standings channel: %v", err)
		}
		if err := e.SetChallengesChannel(ctx, ladder.Division2v2, "chan-2"); err != nil {
			t.Fatalf("set challenges channel: %v", err)
		}
		if err := e.ClearStandingsChannel(ctx, ladder.Division2v2); err != nil {
			t.Fatalf("clear standings channel: %v", err)
		}
		if err := e.SetStandingsChannel(ctx, ladder.Division("9v9"), "x"); !errors.Is(err, ladder.ErrInvalidDivision) {
			t.Fatalf("expected ErrInvalidDivision, got %v", err)
		}

		states, err := e.DivisionStates(ctx)
		if err != nil {
			t.Fatalf("division states: %v", err)
		}
		var found bool
		for _, st := range states {
			if st.Division == ladder.Division2v2 {
				found = true
				if st.StandingsChannel != "" || st.ChallengesChannel != "chan-2" {
					t.Fatalf("unexpected state %+v", st)
				}
			}
		}
		if !found {
			t.Fatalf("2v2 state missing from %+v", states)
		}

		if err := e.LinkEmail(ctx, player("u1"), "not-an-email"); !errors.Is(err, ladder.ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail, got %v", err)
		}
		if err := e.LinkEmail(ctx, player("u1"), "u1@example.com"); err != nil {
			t.Fatalf("link email: %v", err)
		}
		m, err := e.MemberStats(ctx, "u1")
		if err != nil {
			t.Fatalf("member stats: %v", err)
		}
		if m.Email != "u1@example.com" {
			t.Fatalf("expected email stored, got %q", m.Email)
		}
		if _, err := e.MemberStats(ctx, "ghost"); !errors.Is(err, ladder.ErrMemberNotFound) {
			t.Fatalf("expected ErrMemberNotFound, got %v", err)
		}
	})
}

func TestCreateTestTeamsIsAllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		if _, err := e.CreateTestTeams(ctx, ladder.Division1v1); err != nil {
			t.Fatalf("create test teams: %v", err)
		}
		if _, err := e.RemoveTeam(ctx, "Test1v1-1"); err != nil {
			t.Fatalf("remove team: %v", err)
		}
		before := ranks(t, e, ladder.Division1v1)

		teams, err := e.CreateTestTeams(ctx, ladder.Division1v1)
		if !errors.Is(err, ladder.ErrDuplicateTeamName) {
			t.Fatalf("expected ErrDuplicateTeamName, got %v", err)
		}
		if len(teams) != 0 {
			t.Fatalf("rejected call must not return teams, got %+v", teams)
		}
		if after := ranks(t, e, ladder.Division1v1); after != before {
			t.Fatalf("rejected call changed standings from %q to %q", before, after)
		}
		if _, err := e.Team(ctx, "Test1v1-1"); !errors.Is(err, ladder.ErrTeamNotFound) {
			t.Fatalf("Test1v1-1 must not be re-added, got %v", err)
		}
	})
}

func TestLinkEmailValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		for _, bad := range []string{"@", "a@", "@example.com", "not-an-email", ""} {
			if err := e.LinkEmail(ctx, player("u2"), bad); !errors.Is(err, ladder.ErrInvalidEmail) {
				t.Fatalf("expected ErrInvalidEmail for %q, got %v", bad, err)
			}
		}
		if _, err := e.MemberStats(ctx, "u2"); !errors.Is(err, ladder.ErrMemberNotFound) {
			t.Fatalf("rejected addresses must not create a member, got %v", err)
		}

		if err := e.LinkEmail(ctx, player("u2"), " Una Two <u2@example.com> "); err != nil {
			t.Fatalf("link email: %v", err)
		}
		m, err := e.MemberStats(ctx, "u2")
		if err != nil {
			t.Fatalf("member stats: %v", err)
		}
		if m.Email != "u2@example.com" {
			t.Fatalf("expected bare address stored, got %q", m.Email)
		}
	})
}

func TestConcurrentReportsKeepRanksContiguous(t *testing.T) {
	forEachBackend(t, func(t *testing.T, e *ladder.Engine, _ *recordingNotifier) {
		ctx := context.Background()
		seedFive(t, e)
		if _, err := e.Challenge(ctx, "m-B", "B", "A"); err != nil {
			t.Fatalf("challenge: %v", err)
		}
		if _, err := e.Challenge(ctx, "m-E", "E", "C"); err != nil {
			t.Fatalf("challenge: %v", err)
		}

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, winner := range []string{"B", "E"} {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_, err := e.AdminReportWin(ctx, name)
				errs <- err
			}(winner)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("report: %v", err)
			}
		}

		teams, err := e.Standings(ctx, ladder.Division1v1)
		if err != nil {
			t.Fatalf("standings: %v", err)
		}
		if err := ladder.CheckContiguous(teams); err != nil {
			t.Fatalf("ranks broken after concurrent reports: %v", err)
		}
		if got := ranks(t, e, ladder.Division1v1); got != "B1 A2 E3 D4 C5 " {
			t.Fatalf("unexpected standings %q", got)
		}
	})
}
