// AngelaMos | 2026
// stats.go

package admin

import (
	"context"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

type communityStats struct {
	users   *user.Service
	reports *report.Service
}

// NewCommunityStats adapts the user and report services to the dashboard's
// stats surface.
func NewCommunityStats(
	users *user.Service,
	reports *report.Service,
) CommunityStatsProvider {
	return &communityStats{users: users, reports: reports}
}

func (c *communityStats) CountUsers(ctx context.Context) (int, error) {
	return c.users.Count(ctx)
}

func (c *communityStats) CountReportsByStatus(
	ctx context.Context,
) (map[string]int, error) {
	return c.reports.CountByStatus(ctx)
}
