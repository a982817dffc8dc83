package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codr1/Ladderbot/internal/ladder"
	"github.com/codr1/Ladderbot/internal/store"
	"github.com/codr1/Ladderbot/internal/testutil"
)

func backends(t *testing.T) map[string]ladder.Repository {
	return map[string]ladder.Repository{
		"memory": store.NewMemoryStore(),
		"sqlite": testutil.NewTestStore(t),
	}
}

func TestFailedTransactionKeepsNothing(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")
			err := repo.InTx(ctx, func(tx ladder.Tx) error {
				if err := tx.InsertTeam(ctx, ladder.Team{Name: "Ghosts", Division: ladder.Division1v1, Rank: 1, Members: []string{"p1"}}); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected fn error back, got %v", err)
			}

			err = repo.View(ctx, func(tx ladder.Tx) error {
				_, err := tx.GetTeam(ctx, "Ghosts")
				return err
			})
			if !errors.Is(err, ladder.ErrNotFound) {
				t.Fatalf("expected rolled back team to be missing, got %v", err)
			}
		})
	}
}

func TestTeamRoundTripAndChallengeLookups(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := repo.InTx(ctx, func(tx ladder.Tx) error {
				for i, team := range []string{"Alpha", "Bravo"} {
					if err := tx.InsertTeam(ctx, ladder.Team{
						Name:     team,
						Division: ladder.Division2v2,
						Rank:     i + 1,
						Members:  []string{team + "-1", team + "-2"},
					}); err != nil {
						return err
					}
				}
				return tx.CreateChallenge(ctx, ladder.Challenge{
					MatchID:    "Bravo",
					Division:   ladder.Division2v2,
					Challenger: "Bravo",
					Challenged: "Alpha",
					Status:     ladder.ChallengeStatusPending,
				})
			})
			if err != nil {
				t.Fatalf("seed: %v", err)
			}

			err = repo.View(ctx, func(tx ladder.Tx) error {
				team, err := tx.GetTeam(ctx, "Bravo")
				if err != nil {
					return err
				}
				if team.Rank != 2 || len(team.Members) != 2 || team.Members[0] != "Bravo-1" {
					t.Fatalf("unexpected team %+v", team)
				}

				owner, err := tx.FindTeamByMember(ctx, ladder.Division2v2, "Alpha-2")
				if err != nil || owner != "Alpha" {
					t.Fatalf("expected Alpha to own Alpha-2, got %q (%v)", owner, err)
				}

				for _, side := range []string{"Alpha", "Bravo"} {
					opp, err := tx.FindOpponent(ctx, ladder.Division2v2, side)
					if err != nil {
						return err
					}
					if opp == side {
						t.Fatalf("opponent of %s must be the other side", side)
					}
				}
				if ok, _ := tx.IsChallenger(ctx, ladder.Division2v2, "Alpha"); ok {
					t.Fatalf("Alpha is the challenged side")
				}
				if ok, _ := tx.IsChallenged(ctx, ladder.Division2v2, "Alpha"); !ok {
					t.Fatalf("Alpha should be challenged")
				}
				if _, err := tx.GetChallenge(ctx, ladder.Division2v2, "Alpha"); !errors.Is(err, ladder.ErrNotFound) {
					t.Fatalf("challenges are keyed by challenger, got %v", err)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("view: %v", err)
			}
		})
	}
}

func TestMissingRowsReportNotFound(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := repo.InTx(ctx, func(tx ladder.Tx) error {
				return tx.DeleteTeam(ctx, ladder.Division1v1, "Nobody")
			})
			if !errors.Is(err, ladder.ErrNotFound) {
				t.Fatalf("expected ErrNotFound deleting a missing team, got %v", err)
			}
			err = repo.View(ctx, func(tx ladder.Tx) error {
				_, err := tx.GetMember(ctx, "nobody")
				return err
			})
			if !errors.Is(err, ladder.ErrNotFound) {
				t.Fatalf("expected ErrNotFound for a missing member, got %v", err)
			}
		})
	}
}
