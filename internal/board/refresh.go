package board

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/ladder"
	"github.com/codr1/Ladderbot/internal/scheduler"
)

// Source is the read-only slice of the engine the boards need.
type Source interface {
	DivisionStates(ctx context.Context) ([]ladder.DivisionState, error)
	Standings(ctx context.Context, division ladder.Division) ([]ladder.Team, error)
	Challenges(ctx context.Context, division ladder.Division) ([]ladder.Challenge, error)
}

// Refresher republishes the boards of every division that has a bound channel.
type Refresher struct {
	source    Source
	publisher Publisher
}

func NewRefresher(source Source, publisher Publisher) *Refresher {
	return &Refresher{source: source, publisher: publisher}
}

// Refresh publishes all bound boards and returns how many were posted. A
// failing board is logged and skipped so the others still go out.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	logger := log.Ctx(ctx).With().Str("component", "board_refresh").Logger()

	states, err := r.source.DivisionStates(ctx)
	if err != nil {
		return 0, fmt.Errorf("load division states: %w", err)
	}

	posted := 0
	for _, st := range states {
		if st.StandingsChannel != "" {
			if err := r.publishStandings(ctx, st); err != nil {
				logger.Error().Err(err).Str("division", st.Division.String()).Msg("Failed to publish standings board")
			} else {
				posted++
			}
		}
		if st.ChallengesChannel != "" {
			if err := r.publishChallenges(ctx, st); err != nil {
				logger.Error().Err(err).Str("division", st.Division.String()).Msg("Failed to publish challenges board")
			} else {
				posted++
			}
		}
	}
	logger.Debug().Int("posted", posted).Msg("Boards refreshed")
	return posted, nil
}

func (r *Refresher) publishStandings(ctx context.Context, st ladder.DivisionState) error {
	teams, err := r.source.Standings(ctx, st.Division)
	if err != nil {
		return err
	}
	return r.publisher.Publish(ctx, Post{
		Division:  st.Division,
		Kind:      KindStandings,
		ChannelID: st.StandingsChannel,
		Content:   RenderStandings(st.Division, teams),
	})
}

func (r *Refresher) publishChallenges(ctx context.Context, st ladder.DivisionState) error {
	challenges, err := r.source.Challenges(ctx, st.Division)
	if err != nil {
		return err
	}
	return r.publisher.Publish(ctx, Post{
		Division:  st.Division,
		Kind:      KindChallenges,
		ChannelID: st.ChallengesChannel,
		Content:   RenderChallenges(st.Division, challenges),
	})
}

const refreshJobName = "board_refresh"

// Schedule registers the refresh as a recurring scheduler job.
func (r *Refresher) Schedule(s *scheduler.Service, cronExpr string) error {
	_, err := s.AddJob(refreshJobName, cronExpr, func(ctx context.Context) {
		if _, err := r.Refresh(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Board refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule board refresh: %w", err)
	}
	return nil
}
