// AngelaMos | 2026
// service_test.go

package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
)

func testReport(userID, status string) *report.Report {
	now := time.Now().UTC()
	return &report.Report{
		ID:        "report_1_abcdefghi",
		UserID:    userID,
		UserName:  "Jo Citizen",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestService_NotifyStatusChange(t *testing.T) {
	svc := NewService(NewRepository(kv.NewMemoryStore()))
	ctx := context.Background()

	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("u-1", report.StatusReviewed),
	))
	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("u-1", report.StatusResolved),
	))

	inbox, err := svc.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	types := []string{inbox[0].Type, inbox[1].Type}
	assert.Contains(t, types, TypeReportReviewed)
	assert.Contains(t, types, TypeReportResolved)
}

func TestService_PendingProducesNoNotification(t *testing.T) {
	svc := NewService(NewRepository(kv.NewMemoryStore()))
	ctx := context.Background()

	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("u-1", report.StatusPending),
	))

	inbox, err := svc.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestService_InboxesAreIsolated(t *testing.T) {
	svc := NewService(NewRepository(kv.NewMemoryStore()))
	ctx := context.Background()

	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("alice", report.StatusReviewed),
	))

	inbox, err := svc.ListForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestService_MarkRead(t *testing.T) {
	svc := NewService(NewRepository(kv.NewMemoryStore()))
	ctx := context.Background()

	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("u-1", report.StatusResolved),
	))

	inbox, err := svc.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.False(t, inbox[0].Read)

	read, err := svc.MarkRead(ctx, "u-1", inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	// idempotent
	again, err := svc.MarkRead(ctx, "u-1", inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, again.Read)
}

func TestService_MarkReadWrongUser(t *testing.T) {
	svc := NewService(NewRepository(kv.NewMemoryStore()))
	ctx := context.Background()

	require.NoError(t, svc.NotifyStatusChange(
		ctx,
		testReport("alice", report.StatusResolved),
	))

	inbox, err := svc.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	// bob cannot address alice's notification even with a valid id
	_, err = svc.MarkRead(ctx, "bob", inbox[0].ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}
