package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codr1/Ladderbot/internal/ladder"
	"github.com/codr1/Ladderbot/internal/store"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	engine, err := ladder.NewEngine(store.NewMemoryStore())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return New(engine)
}

func admin(text string) Command {
	return Command{PlayerID: "admin", DisplayName: "Admin", Admin: true, Text: text}
}

func as(playerID, text string) Command {
	return Command{PlayerID: playerID, DisplayName: playerID, Text: text}
}

func run(t *testing.T, d *Dispatcher, cmd Command) string {
	t.Helper()
	reply, err := d.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("dispatch %q: %v", cmd.Text, err)
	}
	return reply.Text
}

func expectContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected reply containing %q, got %q", want, got)
	}
}

func TestRegisterTeamWithQuotedNameAndMentions(t *testing.T) {
	d := newDispatcher(t)
	cmd := admin(`/register_team "Net Ninjas" 2v2 <@111> <@!222>`)
	cmd.Mentions = map[string]string{"111": "Ixnay", "222": "Flaw"}

	got := run(t, d, cmd)
	want := "Team Net Ninjas has been registered in the 2v2 division with the following members: Ixnay, Flaw"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	team, err := d.engine.Team(context.Background(), "Net Ninjas")
	if err != nil {
		t.Fatalf("load team: %v", err)
	}
	if len(team.Members) != 2 || team.Members[0] != "111" || team.Members[1] != "222" {
		t.Fatalf("unexpected roster %v", team.Members)
	}

	expectContains(t, run(t, d, cmd), "Team Net Ninjas is already being used")
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	d := newDispatcher(t)
	got := run(t, d, as("p1", "/start_ladder 1v1"))
	if got != "Only administrators can use /start_ladder." {
		t.Fatalf("unexpected reply %q", got)
	}
	states, err := d.engine.DivisionStates(context.Background())
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	for _, st := range states {
		if st.Running {
			t.Fatalf("refused command must not start the ladder")
		}
	}
}

func TestChallengeFlow(t *testing.T) {
	d := newDispatcher(t)
	run(t, d, admin("/register_team Alpha 1v1 <@a>"))
	run(t, d, admin("/register_team Bravo 1v1 <@b>"))
	run(t, d, admin("/register_team Charlie 1v1 <@c>"))

	expectContains(t, run(t, d, as("c", "/challenge Charlie Alpha")), "has not been started")
	expectContains(t, run(t, d, admin("/start_ladder 1v1")), "The 1v1 ladder has started")

	expectContains(t, run(t, d, as("b", "/challenge Charlie Alpha")), "You are not a member of Team Charlie")
	expectContains(t, run(t, d, as("c", "/challenge Charlie Alpha")), "Team Charlie has challenged Team Alpha in the 1v1 division!")
	expectContains(t, run(t, d, as("b", "/challenge Bravo Alpha")), "already been challenged")

	expectContains(t, run(t, d, as("c", "/report_win Charlie")), "Team Charlie has defeated Team Alpha and takes rank 1! Team Alpha drops to rank 3.")

	standings := run(t, d, as("x", "post_standings 1v1"))
	charlie := strings.Index(standings, "Charlie")
	alpha := strings.Index(standings, "Alpha")
	bravo := strings.Index(standings, "Bravo")
	if charlie < 0 || !(charlie < bravo && bravo < alpha) {
		t.Fatalf("unexpected standings board:\n%s", standings)
	}

	expectContains(t, run(t, d, as("c", "/my_stats")), "1v1: 1-0")
}

func TestCancelAndAdminVariants(t *testing.T) {
	d := newDispatcher(t)
	run(t, d, admin("/create_test_teams 1v1"))
	run(t, d, admin("/start_ladder 1v1"))

	expectContains(t, run(t, d, admin("/admin_challenge Test1v1-3 Test1v1-1")), "Team Test1v1-3 has challenged Team Test1v1-1")
	expectContains(t, run(t, d, as("x", "/post_challenges 1v1")), "Test1v1-3")
	expectContains(t, run(t, d, as("test-1v1-3-1", "/cancel_challenge Test1v1-3")), "has been cancelled")
	expectContains(t, run(t, d, admin("/admin_cancel_challenge Test1v1-3")), "No challenge was found")

	run(t, d, admin("/admin_challenge Test1v1-2 Test1v1-1"))
	expectContains(t, run(t, d, admin("/admin_report_win Test1v1-1")), "has defended its rank 1")
}

func TestUsageAndParsingErrors(t *testing.T) {
	d := newDispatcher(t)
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"unknown command", as("p", "/dance"), `Unknown command "dance"`},
		{"missing args", as("p", "/challenge Alpha"), "Usage: /challenge <your team> <opponent>"},
		{"too many args", admin("/remove_team a b"), "Usage: /remove_team <team name>"},
		{"unbalanced quote", as("p", `/challenge "Alpha Bravo`), "Could not read that command"},
		{"empty", as("p", "   "), "Type /help"},
		{"bad division", as("p", "/post_standings 4v4"), `"4v4" is not a division`},
		{"bad rank", admin("/set_rank Alpha first"), `"first" is not a rank number`},
		{"bad mention", admin("/register_team Alpha 1v1 <@oops"), "is not a member mention"},
		{"missing stats", as("nobody", "/my_stats"), "No stats recorded yet"},
		{"bad email", as("p", "/link_email nope"), "is not an email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectContains(t, run(t, d, tt.cmd), tt.want)
		})
	}
}

func TestRecordAdjustmentCommands(t *testing.T) {
	d := newDispatcher(t)
	run(t, d, admin("/register_team Solo 1v1 <@s>"))
	expectContains(t, run(t, d, admin("/add_win Solo")), "Record is now 1-0")
	expectContains(t, run(t, d, admin("/add_loss Solo")), "Record is now 1-1")
	expectContains(t, run(t, d, admin("/subtract_win Solo")), "Record is now 0-1")
	expectContains(t, run(t, d, admin("/subtract_loss Solo")), "Record is now 0-0")
	expectContains(t, run(t, d, admin("/subtract_loss Solo")), "cannot go below zero")
}

func TestChannelCommands(t *testing.T) {
	d := newDispatcher(t)
	expectContains(t, run(t, d, admin("/set_standings_channel 2v2 <#555>")), "The 2v2 standings board will be kept in <#555>.")
	expectContains(t, run(t, d, admin("/set_challenges_channel 2v2 <#556>")), "challenges board")
	expectContains(t, run(t, d, admin("/clear_standings_channel 2v2")), "has been cleared")

	states, err := d.engine.DivisionStates(context.Background())
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	for _, st := range states {
		if st.Division == ladder.Division2v2 && (st.StandingsChannel != "" || st.ChallengesChannel != "556") {
			t.Fatalf("unexpected state %+v", st)
		}
	}
	expectContains(t, run(t, d, admin("/clear_challenges_channel 2v2")), "has been cleared")
}

func TestEndLadderReply(t *testing.T) {
	d := newDispatcher(t)
	run(t, d, admin("/create_test_teams 3v3"))
	run(t, d, admin("/start_ladder 3v3"))
	got := run(t, d, admin("/end_ladder 3v3"))
	expectContains(t, got, "Congratulations to Team Test3v3-1")
	expectContains(t, got, "3V3 Division Standings")
	expectContains(t, run(t, d, admin("/end_ladder 3v3")), "is not running")
}

func TestHelpHidesAdminCommands(t *testing.T) {
	d := newDispatcher(t)
	player := run(t, d, as("p", "/help"))
	if strings.Contains(player, "/start_ladder") {
		t.Fatalf("player help must hide admin commands:\n%s", player)
	}
	expectContains(t, player, "/challenge <your team> <opponent>")
	expectContains(t, run(t, d, admin("/help")), "/start_ladder <division>")
}

func TestMutates(t *testing.T) {
	d := newDispatcher(t)
	if !d.Mutates("/challenge A B") || !d.Mutates("report_win A") {
		t.Fatalf("challenge and report_win change state")
	}
	if d.Mutates("/post_standings 1v1") || d.Mutates("/help") || d.Mutates(`/oops "`) {
		t.Fatalf("read-only and invalid lines must not count as mutating")
	}
}

type failingRepo struct{}

func (failingRepo) InTx(context.Context, func(ladder.Tx) error) error {
	return errors.New("database is locked")
}

func (failingRepo) View(context.Context, func(ladder.Tx) error) error {
	return errors.New("database is locked")
}

func TestInternalFailureIsNotShownAsRuleViolation(t *testing.T) {
	engine, err := ladder.NewEngine(failingRepo{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	d := New(engine)

	reply, err := d.Dispatch(context.Background(), as("p", "/post_standings 1v1"))
	if err == nil {
		t.Fatalf("expected internal error")
	}
	if reply.Text != InternalFailureReply {
		t.Fatalf("expected generic failure reply, got %q", reply.Text)
	}
}
