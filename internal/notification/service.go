// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NotifyStatusChange satisfies report.Notifier. Only statuses a member cares
// about produce a notification; anything else is a silent no-op.
func (s *Service) NotifyStatusChange(
	ctx context.Context,
	r *report.Report,
) error {
	var notificationType, title, message string

	switch r.Status {
	case report.StatusReviewed:
		notificationType = TypeReportReviewed
		title = "Report under review"
		message = "Your rubbish report is being reviewed by the council."
	case report.StatusResolved:
		notificationType = TypeReportResolved
		title = "Report resolved"
		message = "Your rubbish report has been resolved. Thanks for helping keep the community clean!"
	default:
		return nil
	}

	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    r.UserID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		ReportID:  r.ID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notify status change: %w", err)
	}

	return nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]*Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("list notifications: %w", core.ErrInvalidInput)
	}
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead is idempotent; marking an already-read notification succeeds.
func (s *Service) MarkRead(
	ctx context.Context,
	userID, id string,
) (*Notification, error) {
	if userID == "" || id == "" {
		return nil, fmt.Errorf("mark read: %w", core.ErrInvalidInput)
	}

	n, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if n.Read {
		return n, nil
	}

	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}
