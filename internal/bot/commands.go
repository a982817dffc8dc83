package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/codr1/Ladderbot/internal/board"
	"github.com/codr1/Ladderbot/internal/ladder"
)

func (d *Dispatcher) routes() map[string]route {
	return map[string]route{
		"help": {
			summary: "list the commands you can use",
			maxArgs: 0,
			handler: func(_ context.Context, cmd Command, _ []string) (string, error) {
				return d.help(cmd.Admin), nil
			},
		},
		"start_ladder": {
			usage: "<division>", summary: "open a division for challenges",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.startLadder,
		},
		"end_ladder": {
			usage: "<division>", summary: "close a division and crown its champion",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.endLadder,
		},
		"create_test_teams": {
			usage: "<division>", summary: "register five placeholder teams",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.createTestTeams,
		},
		"register_team": {
			usage: "<team name> <division> <@member>...", summary: "register a team at the bottom of a division",
			admin: true, mutates: true, minArgs: 3, maxArgs: -1,
			handler: d.registerTeam,
		},
		"remove_team": {
			usage: "<team name>", summary: "remove a team and close the rank gap",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.removeTeam,
		},
		"challenge": {
			usage: "<your team> <opponent>", summary: "challenge a team up to two ranks above yours",
			mutates: true, minArgs: 2, maxArgs: 2,
			handler: func(ctx context.Context, cmd Command, args []string) (string, error) {
				ch, err := d.engine.Challenge(ctx, cmd.PlayerID, args[0], args[1])
				return challengeCreated(ch), err
			},
		},
		"admin_challenge": {
			usage: "<challenger> <challenged>", summary: "create a challenge on behalf of a team",
			admin: true, mutates: true, minArgs: 2, maxArgs: 2,
			handler: func(ctx context.Context, _ Command, args []string) (string, error) {
				ch, err := d.engine.AdminChallenge(ctx, args[0], args[1])
				return challengeCreated(ch), err
			},
		},
		"cancel_challenge": {
			usage: "<your team>", summary: "withdraw the challenge your team sent",
			mutates: true, minArgs: 1, maxArgs: 1,
			handler: func(ctx context.Context, cmd Command, args []string) (string, error) {
				ch, err := d.engine.CancelChallenge(ctx, cmd.PlayerID, args[0])
				return challengeCancelled(ch), err
			},
		},
		"admin_cancel_challenge": {
			usage: "<challenger>", summary: "withdraw a challenge on behalf of a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: func(ctx context.Context, _ Command, args []string) (string, error) {
				ch, err := d.engine.AdminCancelChallenge(ctx, args[0])
				return challengeCancelled(ch), err
			},
		},
		"report_win": {
			usage: "<your team>", summary: "report that your team won its challenge",
			mutates: true, minArgs: 1, maxArgs: 1,
			handler: func(ctx context.Context, cmd Command, args []string) (string, error) {
				report, err := d.engine.ReportWin(ctx, cmd.PlayerID, args[0])
				return matchReported(report), err
			},
		},
		"admin_report_win": {
			usage: "<winning team>", summary: "report a result on behalf of a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: func(ctx context.Context, _ Command, args []string) (string, error) {
				report, err := d.engine.AdminReportWin(ctx, args[0])
				return matchReported(report), err
			},
		},
		"set_rank": {
			usage: "<team name> <rank>", summary: "move a team to a new rank",
			admin: true, mutates: true, minArgs: 2, maxArgs: 2,
			handler: d.setRank,
		},
		"add_win": {
			usage: "<team name>", summary: "add one win to a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.adjust(d.engine.AddWin, "added a win to"),
		},
		"subtract_win": {
			usage: "<team name>", summary: "remove one win from a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.adjust(d.engine.SubtractWin, "removed a win from"),
		},
		"add_loss": {
			usage: "<team name>", summary: "add one loss to a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.adjust(d.engine.AddLoss, "added a loss to"),
		},
		"subtract_loss": {
			usage: "<team name>", summary: "remove one loss from a team",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.adjust(d.engine.SubtractLoss, "removed a loss from"),
		},
		"post_standings": {
			usage: "<division>", summary: "show a division's standings",
			minArgs: 1, maxArgs: 1,
			handler: d.postStandings,
		},
		"post_challenges": {
			usage: "<division>", summary: "show a division's pending challenges",
			minArgs: 1, maxArgs: 1,
			handler: d.postChallenges,
		},
		"set_standings_channel": {
			usage: "<division> <#channel>", summary: "keep a standings board in a channel",
			admin: true, mutates: true, minArgs: 2, maxArgs: 2,
			handler: d.bindChannel(board.KindStandings, d.engine.SetStandingsChannel),
		},
		"clear_standings_channel": {
			usage: "<division>", summary: "stop updating the standings board",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.clearChannel(board.KindStandings, d.engine.ClearStandingsChannel),
		},
		"set_challenges_channel": {
			usage: "<division> <#channel>", summary: "keep a challenges board in a channel",
			admin: true, mutates: true, minArgs: 2, maxArgs: 2,
			handler: d.bindChannel(board.KindChallenges, d.engine.SetChallengesChannel),
		},
		"clear_challenges_channel": {
			usage: "<division>", summary: "stop updating the challenges board",
			admin: true, mutates: true, minArgs: 1, maxArgs: 1,
			handler: d.clearChannel(board.KindChallenges, d.engine.ClearChallengesChannel),
		},
		"my_stats": {
			summary: "show your ladder record",
			maxArgs: 0,
			handler: d.myStats,
		},
		"link_email": {
			usage: "<email>", summary: "get challenge notifications by email",
			mutates: true, minArgs: 1, maxArgs: 1,
			handler: func(ctx context.Context, cmd Command, args []string) (string, error) {
				player := ladder.Player{ID: cmd.PlayerID, DisplayName: cmd.DisplayName}
				if err := d.engine.LinkEmail(ctx, player, args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Notifications will be sent to %s.", strings.TrimSpace(args[0])), nil
			},
		},
	}
}

func (d *Dispatcher) startLadder(ctx context.Context, _ Command, args []string) (string, error) {
	division, err := ladder.ParseDivision(args[0])
	if err != nil {
		return "", err
	}
	if err := d.engine.StartLadder(ctx, division); err != nil {
		return "", err
	}
	return fmt.Sprintf("The %s ladder has started. Challenges are open!", division), nil
}

func (d *Dispatcher) endLadder(ctx context.Context, _ Command, args []string) (string, error) {
	division, err := ladder.ParseDivision(args[0])
	if err != nil {
		return "", err
	}
	summary, err := d.engine.EndLadder(ctx, division)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The %s ladder has ended.", division)
	if summary.Champion != nil {
		fmt.Fprintf(&b, " Congratulations to Team %s, the %s champions!", summary.Champion.Name, division)
	}
	b.WriteString("\nFinal standings:\n")
	b.WriteString(board.RenderStandings(division, summary.Standings))
	return b.String(), nil
}

func (d *Dispatcher) createTestTeams(ctx context.Context, _ Command, args []string) (string, error) {
	division, err := ladder.ParseDivision(args[0])
	if err != nil {
		return "", err
	}
	teams, err := d.engine.CreateTestTeams(ctx, division)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return fmt.Sprintf("Created %d test teams in the %s division: %s", len(teams), division, strings.Join(names, ", ")), nil
}

func (d *Dispatcher) registerTeam(ctx context.Context, cmd Command, args []string) (string, error) {
	name := args[0]
	division := ladder.Division(strings.ToLower(strings.TrimSpace(args[1])))

	roster := make([]ladder.Player, 0, len(args)-2)
	for _, raw := range args[2:] {
		id, err := mentionID(raw)
		if err != nil {
			return fmt.Sprintf("%q is not a member mention. Usage: /register_team <team name> <division> <@member>...", raw), nil
		}
		roster = append(roster, ladder.Player{ID: id, DisplayName: cmd.Mentions[id]})
	}

	team, err := d.engine.RegisterTeam(ctx, division, name, roster)
	if err != nil {
		return "", err
	}
	members := make([]string, 0, len(roster))
	for _, p := range roster {
		if p.DisplayName != "" {
			members = append(members, p.DisplayName)
		} else {
			members = append(members, p.ID)
		}
	}
	return fmt.Sprintf("Team %s has been registered in the %s division with the following members: %s", team.Name, team.Division, strings.Join(members, ", ")), nil
}

func (d *Dispatcher) removeTeam(ctx context.Context, _ Command, args []string) (string, error) {
	team, err := d.engine.RemoveTeam(ctx, args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Team %s from the %s division has been removed from the Ladder.", team.Name, team.Division), nil
}

func challengeCreated(ch ladder.Challenge) string {
	return fmt.Sprintf("Team %s has challenged Team %s in the %s division!", ch.Challenger, ch.Challenged, ch.Division)
}

func challengeCancelled(ch ladder.Challenge) string {
	return fmt.Sprintf("Team %s's challenge against Team %s has been cancelled.", ch.Challenger, ch.Challenged)
}

func matchReported(r ladder.MatchReport) string {
	if r.Case == ladder.ChallengerWon {
		return fmt.Sprintf("Team %s has defeated Team %s and takes rank %d! Team %s drops to rank %d.",
			r.Winner, r.Loser, r.WinnerRankAfter, r.Loser, r.LoserRankAfter)
	}
	return fmt.Sprintf("Team %s has defended its rank %d against Team %s. Ranks are unchanged.",
		r.Winner, r.WinnerRankAfter, r.Loser)
}

func (d *Dispatcher) setRank(ctx context.Context, _ Command, args []string) (string, error) {
	rank, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Sprintf("%q is not a rank number. Usage: /set_rank <team name> <rank>", args[1]), nil
	}
	move, err := d.engine.SetRank(ctx, args[0], rank)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Team %s moved from rank %d to rank %d in the %s division.", move.Team, move.From, move.To, move.Division), nil
}

func (d *Dispatcher) adjust(op func(context.Context, string) (ladder.Team, error), verb string) handlerFunc {
	return func(ctx context.Context, _ Command, args []string) (string, error) {
		team, err := op(ctx, args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Admin %s Team %s. Record is now %d-%d.", verb, team.Name, team.Wins, team.Losses), nil
	}
}

func (d *Dispatcher) postStandings(ctx context.Context, _ Command, args []string) (string, error) {
	division, err := ladder.ParseDivision(args[0])
	if err != nil {
		return "", err
	}
	teams, err := d.engine.Standings(ctx, division)
	if err != nil {
		return "", err
	}
	return board.RenderStandings(division, teams), nil
}

func (d *Dispatcher) postChallenges(ctx context.Context, _ Command, args []string) (string, error) {
	division, err := ladder.ParseDivision(args[0])
	if err != nil {
		return "", err
	}
	challenges, err := d.engine.Challenges(ctx, division)
	if err != nil {
		return "", err
	}
	return board.RenderChallenges(division, challenges), nil
}

func (d *Dispatcher) bindChannel(kind board.Kind, op func(context.Context, ladder.Division, string) error) handlerFunc {
	return func(ctx context.Context, _ Command, args []string) (string, error) {
		division, err := ladder.ParseDivision(args[0])
		if err != nil {
			return "", err
		}
		channelID, err := mentionID(args[1])
		if err != nil {
			return fmt.Sprintf("%q is not a channel mention.", args[1]), nil
		}
		if err := op(ctx, division, channelID); err != nil {
			return "", err
		}
		return fmt.Sprintf("The %s %s board will be kept in <#%s>.", division, kind, channelID), nil
	}
}

func (d *Dispatcher) clearChannel(kind board.Kind, op func(context.Context, ladder.Division) error) handlerFunc {
	return func(ctx context.Context, _ Command, args []string) (string, error) {
		division, err := ladder.ParseDivision(args[0])
		if err != nil {
			return "", err
		}
		if err := op(ctx, division); err != nil {
			return "", err
		}
		return fmt.Sprintf("The %s %s board channel has been cleared.", division, kind), nil
	}
}

func (d *Dispatcher) myStats(ctx context.Context, cmd Command, _ []string) (string, error) {
	m, err := d.engine.MemberStats(ctx, cmd.PlayerID)
	if err != nil {
		return "", err
	}
	name := m.DisplayName
	if name == "" {
		name = m.PlayerID
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s: %d team(s) joined, %d match(es) played.", name, m.TeamsCount, m.ParticipationCount)
	for _, division := range ladder.Divisions() {
		r, ok := m.Records[division]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %d-%d, %d title(s)", division, r.Wins, r.Losses, r.ChampionTitles)
	}
	return b.String(), nil
}
