// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

var ErrInvalidStatus = errors.New("invalid report status")

const createRetries = 3

// Rewarder credits eco-points to a member after a successful submission.
type Rewarder interface {
	AwardPoints(ctx context.Context, userID string, points int) error
}

// Notifier tells a member their report moved to a new status. Implementations
// must tolerate being called for any status value.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, report *Report) error
}

type Service struct {
	repo            Repository
	users           user.Repository
	rewarder        Rewarder
	notifier        Notifier
	pointsPerReport int
	logger          *slog.Logger
}

func NewService(
	repo Repository,
	users user.Repository,
	rewarder Rewarder,
	notifier Notifier,
	pointsPerReport int,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:            repo,
		users:           users,
		rewarder:        rewarder,
		notifier:        notifier,
		pointsPerReport: pointsPerReport,
		logger:          logger,
	}
}

// Submit stores a new pending report and credits the reporter. A failed
// reward is logged, not retried; the report itself is the source of truth
// and points can be reconciled offline.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	req SubmitReportRequest,
) (*Report, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reporter: %w", err)
	}

	now := time.Now().UTC()
	report := &Report{
		UserID:      u.ID,
		UserName:    u.Name,
		Type:        req.Type,
		Description: req.Description,
		Location: Location{
			Lat:     *req.Location.Lat,
			Lng:     *req.Location.Lng,
			Address: req.Location.Address,
		},
		Photo:     req.Photo,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Same-millisecond suffix collisions are vanishingly rare; regenerate
	// rather than fail the submission.
	for attempt := 0; ; attempt++ {
		report.ID = NewReportID()

		err = s.repo.Create(ctx, report)
		if err == nil {
			break
		}
		if !errors.Is(err, core.ErrDuplicateKey) || attempt >= createRetries {
			return nil, err
		}
	}

	if s.rewarder != nil && s.pointsPerReport > 0 {
		if err := s.rewarder.AwardPoints(ctx, u.ID, s.pointsPerReport); err != nil {
			s.logger.Error("award points failed",
				"error", err,
				"user_id", u.ID,
				"report_id", report.ID,
			)
		}
	}

	return report, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Report, error) {
	if id == "" {
		return nil, fmt.Errorf("get report: %w", core.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Report, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID string,
) ([]*Report, error) {
	if userID == "" {
		return nil, fmt.Errorf("list reports: %w", core.ErrInvalidInput)
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves a report to any valid status, including backwards;
// council staff routinely reopen resolved reports. Member notifications are
// best-effort.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Report, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("update status %q: %w", status, ErrInvalidStatus)
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if report.Status == status {
		return report, nil
	}

	report.Status = status
	report.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyStatusChange(ctx, report); err != nil {
			s.logger.Error("notify status change failed",
				"error", err,
				"report_id", report.ID,
				"status", status,
			)
		}
	}

	return report, nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
