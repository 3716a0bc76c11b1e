// AngelaMos | 2026
// service_test.go

package report_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/notification"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/reward"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

type fixture struct {
	svc           *report.Service
	users         user.Repository
	notifications *notification.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := kv.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := user.NewRepository(store)
	ledger := reward.NewLedger(users, config.RewardConfig{
		PointsPerReport: 10,
		CreditDivisor:   100,
	}, logger)

	notifications := notification.NewService(notification.NewRepository(store))

	svc := report.NewService(
		report.NewRepository(store),
		users,
		ledger,
		notifications,
		10,
		logger,
	)

	return &fixture{
		svc:           svc,
		users:         users,
		notifications: notifications,
	}
}

func (f *fixture) seedUser(t *testing.T, id string) *user.User {
	t.Helper()

	now := time.Now().UTC()
	u := &user.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Jo Citizen",
		Role:      user.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.users.Create(context.Background(), u, "hash"))
	return u
}

func submitRequest() report.SubmitReportRequest {
	lat, lng := -33.8688, 151.2093
	return report.SubmitReportRequest{
		Type:        "litter",
		Description: "Pile of rubbish dumped next to the bus stop",
		Location: report.LocationPayload{
			Lat:     &lat,
			Lng:     &lng,
			Address: "George St, Sydney",
		},
	}
}

func TestService_Submit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	submitted, err := f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(submitted.ID, "report_"))
	assert.Equal(t, "litter", submitted.Type)
	assert.Equal(t, report.StatusPending, submitted.Status)
	assert.Equal(t, u.ID, submitted.UserID)
	assert.Equal(t, u.Name, submitted.UserName)
	assert.InDelta(t, -33.8688, submitted.Location.Lat, 1e-9)

	// the reporter earns points immediately
	got, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.EcoPoints)
	assert.Equal(t, 0, got.Credits)
}

func TestService_SubmitUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), "ghost", submitRequest())
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_TenReportsEarnACredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	for i := 0; i < 10; i++ {
		_, err := f.svc.Submit(ctx, u.ID, submitRequest())
		require.NoError(t, err)
	}

	got, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.EcoPoints)
	assert.Equal(t, 1, got.Credits)
}

func TestService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	submitted, err := f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)

	reviewed, err := f.svc.UpdateStatus(ctx, submitted.ID, report.StatusReviewed)
	require.NoError(t, err)
	assert.Equal(t, report.StatusReviewed, reviewed.Status)
	assert.True(t, reviewed.UpdatedAt.After(submitted.UpdatedAt) ||
		reviewed.UpdatedAt.Equal(submitted.UpdatedAt))

	// the member is told about the review
	inbox, err := f.notifications.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.TypeReportReviewed, inbox[0].Type)
	assert.Equal(t, submitted.ID, inbox[0].ReportID)
	assert.False(t, inbox[0].Read)

	// any transition is legal, including reopening
	resolved, err := f.svc.UpdateStatus(ctx, submitted.ID, report.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, report.StatusResolved, resolved.Status)

	reopened, err := f.svc.UpdateStatus(ctx, submitted.ID, report.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, report.StatusPending, reopened.Status)
}

func TestService_UpdateStatusNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	submitted, err := f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)

	same, err := f.svc.UpdateStatus(ctx, submitted.ID, report.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, report.StatusPending, same.Status)

	// no notification for a no-op
	inbox, err := f.notifications.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestService_UpdateStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	submitted, err := f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, submitted.ID, "closed")
	require.ErrorIs(t, err, report.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, "report_0_missing", report.StatusReviewed)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_ListByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")

	_, err := f.svc.Submit(ctx, alice.ID, submitRequest())
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, alice.ID, submitRequest())
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, bob.ID, submitRequest())
	require.NoError(t, err)

	mine, err := f.svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, alice.ID, r.UserID)
	}

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_CountByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "u-1")

	first, err := f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, u.ID, submitRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, first.ID, report.StatusResolved)
	require.NoError(t, err)

	counts, err := f.svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[report.StatusPending])
	assert.Equal(t, 0, counts[report.StatusReviewed])
	assert.Equal(t, 1, counts[report.StatusResolved])
}
