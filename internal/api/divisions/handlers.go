// internal/api/divisions/handlers.go
package divisions

import (
	"context"
	"net/http"
	"time"

	"github.com/codr1/Ladderbot/internal/api/apiutil"
	"github.com/codr1/Ladderbot/internal/board"
	"github.com/codr1/Ladderbot/internal/ladder"
)

// Reader is the read side of the ladder engine.
type Reader interface {
	Standings(ctx context.Context, division ladder.Division) ([]ladder.Team, error)
	Challenges(ctx context.Context, division ladder.Division) ([]ladder.Challenge, error)
}

type TeamView struct {
	Rank       int      `json:"rank"`
	Name       string   `json:"name"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	WinStreak  int      `json:"win_streak"`
	LossStreak int      `json:"loss_streak"`
	Members    []string `json:"members"`
}

type ChallengeView struct {
	MatchID    string    `json:"match_id"`
	Challenger string    `json:"challenger"`
	Challenged string    `json:"challenged"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type StandingsResponse struct {
	Division ladder.Division `json:"division"`
	Teams    []TeamView      `json:"teams"`
	Board    string          `json:"board"`
}

type ChallengesResponse struct {
	Division   ladder.Division `json:"division"`
	Challenges []ChallengeView `json:"challenges"`
	Board      string          `json:"board"`
}

var reader Reader

func InitHandlers(r Reader) {
	reader = r
}

// GET /api/v1/divisions/{division}/standings
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	division, ok := parseDivision(w, r)
	if !ok {
		return
	}
	teams, err := reader.Standings(r.Context(), division)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "failed to load standings", Err: err})
		return
	}

	views := make([]TeamView, len(teams))
	for i, t := range teams {
		views[i] = TeamView{
			Rank:       t.Rank,
			Name:       t.Name,
			Wins:       t.Wins,
			Losses:     t.Losses,
			WinStreak:  t.WinStreak,
			LossStreak: t.LossStreak,
			Members:    t.Members,
		}
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, StandingsResponse{
		Division: division,
		Teams:    views,
		Board:    board.RenderStandings(division, teams),
	})
}

// GET /api/v1/divisions/{division}/challenges
func HandleChallenges(w http.ResponseWriter, r *http.Request) {
	division, ok := parseDivision(w, r)
	if !ok {
		return
	}
	challenges, err := reader.Challenges(r.Context(), division)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "failed to load challenges", Err: err})
		return
	}

	views := make([]ChallengeView, len(challenges))
	for i, c := range challenges {
		views[i] = ChallengeView{
			MatchID:    c.MatchID,
			Challenger: c.Challenger,
			Challenged: c.Challenged,
			Status:     c.Status,
			CreatedAt:  c.CreatedAt,
		}
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, ChallengesResponse{
		Division:   division,
		Challenges: views,
		Board:      board.RenderChallenges(division, challenges),
	})
}

func parseDivision(w http.ResponseWriter, r *http.Request) (ladder.Division, bool) {
	division, err := ladder.ParseDivision(r.PathValue("division"))
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: err.Error(), Err: err})
		return "", false
	}
	return division, true
}
