// AngelaMos | 2026
// ledger_test.go

package reward

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

func newTestLedger(t *testing.T) (*Ledger, user.Repository) {
	t.Helper()

	users := user.NewRepository(kv.NewMemoryStore())
	ledger := NewLedger(users, config.RewardConfig{
		PointsPerReport: 10,
		CreditDivisor:   100,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return ledger, users
}

func seedUser(t *testing.T, users user.Repository, id string, points int) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, users.Create(context.Background(), &user.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Member",
		Role:      user.RoleUser,
		EcoPoints: points,
		Credits:   points / 100,
		CreatedAt: now,
		UpdatedAt: now,
	}, "hash"))
}

func TestLedger_AwardPoints(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()
	seedUser(t, users, "u-1", 0)

	require.NoError(t, ledger.AwardPoints(ctx, "u-1", 10))

	got, err := users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.EcoPoints)
	assert.Equal(t, 0, got.Credits)
}

func TestLedger_CreditsRollOver(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()
	seedUser(t, users, "u-1", 90)

	require.NoError(t, ledger.AwardPoints(ctx, "u-1", 10))

	got, err := users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.EcoPoints)
	assert.Equal(t, 1, got.Credits)
}

func TestLedger_CreditsFor(t *testing.T) {
	ledger, _ := newTestLedger(t)

	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{250, 2},
		{-5, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ledger.CreditsFor(tt.points), "points=%d", tt.points)
	}
}

func TestLedger_ConcurrentAwardsAllLand(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()
	seedUser(t, users, "u-1", 0)

	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			//nolint:errcheck // contention can exhaust retries; the point is no lost updates
			_ = ledger.AwardPoints(ctx, "u-1", 10)
		}()
	}
	wg.Wait()

	got, err := users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.EcoPoints%10, "awards must never be partially applied")
	assert.Equal(t, got.EcoPoints/100, got.Credits)
}

func TestLedger_MissingUserIsSkipped(t *testing.T) {
	ledger, _ := newTestLedger(t)

	// awarding a vanished user must not surface an error to the caller
	require.NoError(t, ledger.AwardPoints(context.Background(), "ghost", 10))
}

func TestLedger_RejectsNonPositivePoints(t *testing.T) {
	ledger, users := newTestLedger(t)
	ctx := context.Background()
	seedUser(t, users, "u-1", 0)

	require.ErrorIs(t, ledger.AwardPoints(ctx, "u-1", 0), core.ErrInvalidInput)
	require.ErrorIs(t, ledger.AwardPoints(ctx, "u-1", -10), core.ErrInvalidInput)
}
