// AngelaMos | 2026
// ledger.go

package reward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

const swapRetries = 5

// Ledger maintains each member's eco-point balance. Credits are derived from
// the lifetime points total, never stored independently, so the two can
// never drift apart.
type Ledger struct {
	users  user.Repository
	cfg    config.RewardConfig
	logger *slog.Logger
}

func NewLedger(
	users user.Repository,
	cfg config.RewardConfig,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

// AwardPoints adds points to a member's balance via compare-and-swap, so
// concurrent awards for the same member all land. A vanished profile is
// logged and skipped; the caller's operation already succeeded and must not
// be rolled back over a reward.
func (l *Ledger) AwardPoints(
	ctx context.Context,
	userID string,
	points int,
) error {
	if points <= 0 {
		return fmt.Errorf("award points: %w", core.ErrInvalidInput)
	}

	for attempt := 0; attempt < swapRetries; attempt++ {
		current, err := l.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				l.logger.Warn("skipping award for missing user",
					"user_id", userID,
					"points", points,
				)
				return nil
			}
			return fmt.Errorf("award points: %w", err)
		}

		next := *current
		next.EcoPoints = current.EcoPoints + points
		next.Credits = next.EcoPoints / l.cfg.CreditDivisor
		next.UpdatedAt = time.Now().UTC()

		ok, err := l.users.Swap(ctx, current, &next)
		if err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		if ok {
			return nil
		}
	}

	return fmt.Errorf(
		"award points: user %s kept changing after %d attempts: %w",
		userID,
		swapRetries,
		core.ErrConflict,
	)
}

// CreditsFor reports how many redemption credits a lifetime points total is
// worth.
func (l *Ledger) CreditsFor(ecoPoints int) int {
	if ecoPoints < 0 {
		return 0
	}
	return ecoPoints / l.cfg.CreditDivisor
}
