package ladder

import (
	"fmt"
	"sort"
)

// byRank returns a copy of teams sorted by rank. Equal ranks keep their input order.
func byRank(teams []Team) []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out
}

func indexOf(teams []Team, name string) int {
	for i, t := range teams {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Compact renumbers teams 1..N in their current rank order, closing any gaps
// left by a removal.
func Compact(teams []Team) []Team {
	out := byRank(teams)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// MoveRank places the named team at newRank and shifts the teams it passes by
// one in the opposite direction. The result is ordered by rank.
func MoveRank(teams []Team, name string, newRank int) ([]Team, error) {
	out := Compact(teams)
	idx := indexOf(out, name)
	if idx < 0 {
		return nil, newError(ErrTeamNotFound, fmt.Sprintf("No team named %s found.", name))
	}
	current := out[idx].Rank
	if newRank < 1 || newRank > len(out) {
		return nil, newError(ErrRankOutOfBounds, fmt.Sprintf("Rank %d is outside 1-%d for the %s division.", newRank, len(out), out[idx].Division))
	}
	if newRank == current {
		return nil, newError(ErrRankUnchanged, fmt.Sprintf("Team %s is already rank %d.", name, current))
	}

	for i := range out {
		r := out[i].Rank
		switch {
		case i == idx:
			out[i].Rank = newRank
		case newRank < current && r >= newRank && r < current:
			out[i].Rank = r + 1
		case newRank > current && r > current && r <= newRank:
			out[i].Rank = r - 1
		}
	}
	return byRank(out), nil
}

// SwapOnChallengerWin applies the challenger-wins rule: teams strictly between
// the loser's rank lr and the winner's rank wr move down one, the winner takes
// lr and the loser takes wr. Ranks are then re-derived as 1..N, with the loser
// placed after any team that landed on the same value.
func SwapOnChallengerWin(teams []Team, winner, loser string) ([]Team, error) {
	out := Compact(teams)
	wi := indexOf(out, winner)
	li := indexOf(out, loser)
	if wi < 0 {
		return nil, newError(ErrTeamNotFound, fmt.Sprintf("No team named %s found.", winner))
	}
	if li < 0 {
		return nil, newError(ErrTeamNotFound, fmt.Sprintf("No team named %s found.", loser))
	}
	wr, lr := out[wi].Rank, out[li].Rank
	if wr <= lr {
		return nil, newError(ErrRankInconsistent, fmt.Sprintf("Challenger %s (rank %d) is not ranked below %s (rank %d).", winner, wr, loser, lr))
	}

	for i := range out {
		r := out[i].Rank
		switch {
		case i == wi:
			out[i].Rank = lr
		case i == li:
			out[i].Rank = wr
		case r > lr && r < wr:
			out[i].Rank = r + 1
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[j].Name == loser
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// RankChanges lists the teams in after whose rank differs from before.
func RankChanges(before, after []Team) []RankChange {
	prev := make(map[string]int, len(before))
	for _, t := range before {
		prev[t.Name] = t.Rank
	}
	var changes []RankChange
	for _, t := range after {
		if r, ok := prev[t.Name]; !ok || r != t.Rank {
			changes = append(changes, RankChange{Team: t.Name, Rank: t.Rank})
		}
	}
	return changes
}

// CheckContiguous verifies that teams hold exactly the ranks 1..N once each.
func CheckContiguous(teams []Team) error {
	seen := make([]bool, len(teams)+1)
	for _, t := range teams {
		if t.Rank < 1 || t.Rank > len(teams) || seen[t.Rank] {
			return newError(ErrRankInconsistent, fmt.Sprintf("rank %d of team %s breaks the 1-%d sequence", t.Rank, t.Name, len(teams)))
		}
		seen[t.Rank] = true
	}
	return nil
}
