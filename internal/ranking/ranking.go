// Package ranking derives contribution counts and rank tiers from the contribution ledger.
//
// The counters stored on a user are a cache. They can always be rebuilt by replaying
// the ledger, and since the ledger is append-only they never decrease.
package ranking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/database"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

// Step is the number of contributions needed per rank.
const Step = 10

// Standing is a user's contribution count and the rank derived from it.
type Standing struct {
	Count int
	Rank  int
}

// ForCount returns the standing for count contributions.
func ForCount(count int) Standing {
	if count < 0 {
		count = 0
	}
	return Standing{Count: count, Rank: count / Step}
}

// Transition is the result of recomputing a user's standing.
type Transition struct {
	PreviousRank int
	Standing     Standing
}

func (t Transition) RankedUp() bool {
	return t.Standing.Rank > t.PreviousRank
}

// Drift is a user whose cached counters disagree with the ledger.
type Drift struct {
	UserID   string
	Username string
	Cached   Standing
	Derived  Standing
}

type Engine struct {
	db     *sqlx.DB
	users  user.Repository
	ledger contribution.Repository
	logger *slog.Logger
}

func NewEngine(db *sqlx.DB, users user.Repository, ledger contribution.Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		db:     db,
		users:  users,
		ledger: ledger,
		logger: logger,
	}
}

// Recompute refreshes the cached standing of userID from the ledger.
// It is meant to run in the same transaction as the ledger append, so the
// caller sees its own contribution in the returned standing.
func (e *Engine) Recompute(ctx context.Context, q database.Queryer, userID string) (Transition, error) {
	if err := e.users.SyncContributionCount(ctx, q, userID); err != nil {
		return Transition{}, err
	}
	u, err := e.users.FindByID(ctx, q, userID)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{
		PreviousRank: u.ContributorRank,
		Standing:     ForCount(u.ContributionCount),
	}
	if t.Standing.Rank != u.ContributorRank {
		if err := e.users.UpdateRank(ctx, q, userID, t.Standing.Rank); err != nil {
			return Transition{}, err
		}
	}
	return t, nil
}

// Reconcile replays the whole ledger and compares the result with every user's cached counters.
// Drifted users are rewritten unless dryRun is set. The drifted users are returned either way.
func (e *Engine) Reconcile(ctx context.Context, dryRun bool) ([]Drift, error) {
	var drifts []Drift
	err := database.RunInTx(ctx, e.db, func(ctx context.Context, tx *sqlx.Tx) error {
		counts, err := e.ledger.CountAll(ctx, tx)
		if err != nil {
			return err
		}
		users, err := e.users.FindAll(ctx, tx)
		if err != nil {
			return err
		}

		for _, u := range users {
			derived := ForCount(counts[u.ID])
			cached := Standing{Count: u.ContributionCount, Rank: u.ContributorRank}
			if derived == cached {
				continue
			}
			drifts = append(drifts, Drift{UserID: u.ID, Username: u.Username, Cached: cached, Derived: derived})
			if dryRun {
				continue
			}
			if err := e.users.UpdateStanding(ctx, tx, u.ID, derived.Count, derived.Rank); err != nil {
				return err
			}
			e.logger.Info("repaired contributor standing",
				"user_id", u.ID,
				"cached_count", cached.Count,
				"count", derived.Count,
				"rank", derived.Rank,
			)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile standings: %w", err)
	}
	return drifts, nil
}

// Verify counts the ledger entries of one user and compares the derived standing with the cached counters.
// It reports the drift, if any, without repairing it.
func (e *Engine) Verify(ctx context.Context, userID string) (*Drift, error) {
	u, err := e.users.FindByID(ctx, e.db, userID)
	if err != nil {
		return nil, err
	}
	count, err := e.ledger.CountByUser(ctx, e.db, userID)
	if err != nil {
		return nil, err
	}

	derived := ForCount(count)
	cached := Standing{Count: u.ContributionCount, Rank: u.ContributorRank}
	if derived == cached {
		return nil, nil
	}
	return &Drift{UserID: u.ID, Username: u.Username, Cached: cached, Derived: derived}, nil
}
