package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/codr1/Ladderbot/internal/ladder"
)

// MemoryStore keeps the ladder in process memory. Transactions work on a copy
// of the state that replaces the original only when fn succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	st := &memState{
		teams:   make(map[string]memTeam),
		states:  make(map[ladder.Division]ladder.DivisionState),
		members: make(map[string]ladder.Member),
		now:     time.Now,
	}
	for _, d := range ladder.Divisions() {
		st.states[d] = ladder.DivisionState{Division: d}
	}
	return &MemoryStore{state: st}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx ladder.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(tx ladder.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

type memTeam struct {
	team ladder.Team
	seq  int64
}

type memState struct {
	teams      map[string]memTeam
	challenges []ladder.Challenge
	states     map[ladder.Division]ladder.DivisionState
	members    map[string]ladder.Member
	seq        int64
	now        func() time.Time
}

func (m *memState) clone() *memState {
	out := &memState{
		teams:      make(map[string]memTeam, len(m.teams)),
		challenges: make([]ladder.Challenge, len(m.challenges)),
		states:     make(map[ladder.Division]ladder.DivisionState, len(m.states)),
		members:    make(map[string]ladder.Member, len(m.members)),
		seq:        m.seq,
		now:        m.now,
	}
	for k, v := range m.teams {
		v.team.Members = append([]string(nil), v.team.Members...)
		out.teams[k] = v
	}
	copy(out.challenges, m.challenges)
	for k, v := range m.states {
		out.states[k] = v
	}
	for k, v := range m.members {
		records := make(map[ladder.Division]ladder.DivisionRecord, len(v.Records))
		for d, r := range v.Records {
			records[d] = r
		}
		v.Records = records
		out.members[k] = v
	}
	return out
}

func copyTeam(t ladder.Team) ladder.Team {
	t.Members = append([]string(nil), t.Members...)
	return t
}

// sortedTeams returns the division's teams by rank, then insertion order.
func (m *memState) sortedTeams(division ladder.Division) []memTeam {
	var out []memTeam
	for _, mt := range m.teams {
		if mt.team.Division == division {
			out = append(out, mt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].team.Rank != out[j].team.Rank {
			return out[i].team.Rank < out[j].team.Rank
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (m *memState) CountTeams(ctx context.Context, division ladder.Division) (int, error) {
	return len(m.sortedTeams(division)), nil
}

func (m *memState) GetTeam(ctx context.Context, name string) (ladder.Team, error) {
	mt, ok := m.teams[name]
	if !ok {
		return ladder.Team{}, ladder.ErrNotFound
	}
	return copyTeam(mt.team), nil
}

func (m *memState) ListTeams(ctx context.Context, division ladder.Division) ([]ladder.Team, error) {
	sorted := m.sortedTeams(division)
	teams := make([]ladder.Team, 0, len(sorted))
	for _, mt := range sorted {
		teams = append(teams, copyTeam(mt.team))
	}
	return teams, nil
}

func (m *memState) FindTeamByMember(ctx context.Context, division ladder.Division, playerID string) (string, error) {
	for _, mt := range m.sortedTeams(division) {
		if mt.team.HasMember(playerID) {
			return mt.team.Name, nil
		}
	}
	return "", ladder.ErrNotFound
}

func (m *memState) InsertTeam(ctx context.Context, team ladder.Team) error {
	if _, exists := m.teams[team.Name]; exists {
		return fmt.Errorf("team %s already exists", team.Name)
	}
	m.seq++
	team = copyTeam(team)
	if team.CreatedAt.IsZero() {
		team.CreatedAt = m.now().UTC()
	}
	m.teams[team.Name] = memTeam{team: team, seq: m.seq}
	return nil
}

func (m *memState) DeleteTeam(ctx context.Context, division ladder.Division, name string) error {
	mt, ok := m.teams[name]
	if !ok || mt.team.Division != division {
		return ladder.ErrNotFound
	}
	delete(m.teams, name)
	return nil
}

func (m *memState) UpdateRanks(ctx context.Context, division ladder.Division, changes []ladder.RankChange) error {
	for _, c := range changes {
		mt, ok := m.teams[c.Team]
		if !ok || mt.team.Division != division {
			return fmt.Errorf("team %s not in %s division: %w", c.Team, division, ladder.ErrNotFound)
		}
		mt.team.Rank = c.Rank
		m.teams[c.Team] = mt
	}
	return nil
}

func (m *memState) UpdateRecord(ctx context.Context, team ladder.Team) error {
	mt, ok := m.teams[team.Name]
	if !ok {
		return ladder.ErrNotFound
	}
	mt.team.Wins = team.Wins
	mt.team.Losses = team.Losses
	mt.team.WinStreak = team.WinStreak
	mt.team.LossStreak = team.LossStreak
	m.teams[team.Name] = mt
	return nil
}

func (m *memState) DeleteTeams(ctx context.Context, division ladder.Division) error {
	for name, mt := range m.teams {
		if mt.team.Division == division {
			delete(m.teams, name)
		}
	}
	return nil
}

func (m *memState) IsChallenged(ctx context.Context, division ladder.Division, team string) (bool, error) {
	for _, c := range m.challenges {
		if c.Division == division && c.Challenged == team {
			return true, nil
		}
	}
	return false, nil
}

func (m *memState) IsChallenger(ctx context.Context, division ladder.Division, team string) (bool, error) {
	for _, c := range m.challenges {
		if c.Division == division && c.Challenger == team {
			return true, nil
		}
	}
	return false, nil
}

func (m *memState) FindOpponent(ctx context.Context, division ladder.Division, team string) (string, error) {
	for _, c := range m.challenges {
		if c.Division != division {
			continue
		}
		if c.Challenger == team {
			return c.Challenged, nil
		}
		if c.Challenged == team {
			return c.Challenger, nil
		}
	}
	return "", ladder.ErrNotFound
}

func (m *memState) GetChallenge(ctx context.Context, division ladder.Division, challenger string) (ladder.Challenge, error) {
	for _, c := range m.challenges {
		if c.Division == division && c.MatchID == challenger {
			return c, nil
		}
	}
	return ladder.Challenge{}, ladder.ErrNotFound
}

func (m *memState) CreateChallenge(ctx context.Context, challenge ladder.Challenge) error {
	for _, c := range m.challenges {
		if c.Division != challenge.Division {
			continue
		}
		if c.Challenger == challenge.Challenger || c.Challenged == challenge.Challenged {
			return fmt.Errorf("challenge between %s and %s conflicts with an existing challenge", challenge.Challenger, challenge.Challenged)
		}
	}
	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = m.now().UTC()
	}
	m.challenges = append(m.challenges, challenge)
	return nil
}

func (m *memState) deleteChallenges(keep func(ladder.Challenge) bool) {
	kept := m.challenges[:0]
	for _, c := range m.challenges {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	m.challenges = kept
}

func (m *memState) DeleteChallenge(ctx context.Context, division ladder.Division, challenger string) error {
	m.deleteChallenges(func(c ladder.Challenge) bool {
		return c.Division != division || c.MatchID != challenger
	})
	return nil
}

func (m *memState) DeleteChallengesInvolving(ctx context.Context, division ladder.Division, team string) error {
	m.deleteChallenges(func(c ladder.Challenge) bool {
		return c.Division != division || !c.Involves(team)
	})
	return nil
}

func (m *memState) ListChallenges(ctx context.Context, division ladder.Division) ([]ladder.Challenge, error) {
	var out []ladder.Challenge
	for _, c := range m.challenges {
		if c.Division == division {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memState) DeleteChallenges(ctx context.Context, division ladder.Division) error {
	m.deleteChallenges(func(c ladder.Challenge) bool {
		return c.Division != division
	})
	return nil
}

func (m *memState) GetDivisionState(ctx context.Context, division ladder.Division) (ladder.DivisionState, error) {
	st, ok := m.states[division]
	if !ok {
		return ladder.DivisionState{Division: division}, ladder.ErrNotFound
	}
	return st, nil
}

func (m *memState) ListDivisionStates(ctx context.Context) ([]ladder.DivisionState, error) {
	out := make([]ladder.DivisionState, 0, len(m.states))
	for _, d := range ladder.Divisions() {
		if st, ok := m.states[d]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memState) updateState(division ladder.Division, fn func(*ladder.DivisionState)) {
	st, ok := m.states[division]
	if !ok {
		st = ladder.DivisionState{Division: division}
	}
	fn(&st)
	m.states[division] = st
}

func (m *memState) SetRunning(ctx context.Context, division ladder.Division, running bool) error {
	m.updateState(division, func(st *ladder.DivisionState) { st.Running = running })
	return nil
}

func (m *memState) SetStandingsChannel(ctx context.Context, division ladder.Division, channelID string) error {
	m.updateState(division, func(st *ladder.DivisionState) { st.StandingsChannel = channelID })
	return nil
}

func (m *memState) SetChallengesChannel(ctx context.Context, division ladder.Division, channelID string) error {
	m.updateState(division, func(st *ladder.DivisionState) { st.ChallengesChannel = channelID })
	return nil
}

func (m *memState) GetMember(ctx context.Context, playerID string) (ladder.Member, error) {
	member, ok := m.members[playerID]
	if !ok {
		return ladder.Member{}, ladder.ErrNotFound
	}
	records := make(map[ladder.Division]ladder.DivisionRecord, len(member.Records))
	for d, r := range member.Records {
		records[d] = r
	}
	member.Records = records
	return member, nil
}

func (m *memState) CreateMember(ctx context.Context, playerID, displayName string) (bool, error) {
	if _, ok := m.members[playerID]; ok {
		return false, nil
	}
	m.members[playerID] = ladder.Member{
		PlayerID:    playerID,
		DisplayName: displayName,
		Records:     make(map[ladder.Division]ladder.DivisionRecord),
		CreatedAt:   m.now().UTC(),
	}
	return true, nil
}

func (m *memState) updateMember(playerID string, fn func(*ladder.Member)) error {
	member, ok := m.members[playerID]
	if !ok {
		return ladder.ErrNotFound
	}
	fn(&member)
	m.members[playerID] = member
	return nil
}

func (m *memState) SetMemberEmail(ctx context.Context, playerID, email string) error {
	return m.updateMember(playerID, func(mb *ladder.Member) { mb.Email = email })
}

func (m *memState) IncrementTeamsCount(ctx context.Context, playerID string) error {
	return m.updateMember(playerID, func(mb *ladder.Member) { mb.TeamsCount++ })
}

func (m *memState) IncrementParticipation(ctx context.Context, playerID string) error {
	return m.updateMember(playerID, func(mb *ladder.Member) { mb.ParticipationCount++ })
}

func (m *memState) RecordDivisionResult(ctx context.Context, playerID string, division ladder.Division, won bool) error {
	return m.updateMember(playerID, func(mb *ladder.Member) {
		r := mb.Records[division]
		if won {
			r.Wins++
		} else {
			r.Losses++
		}
		mb.Records[division] = r
	})
}

func (m *memState) AddChampionTitle(ctx context.Context, playerID string, division ladder.Division) error {
	return m.updateMember(playerID, func(mb *ladder.Member) {
		r := mb.Records[division]
		r.ChampionTitles++
		mb.Records[division] = r
	})
}
