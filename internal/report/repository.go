// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
)

const reportKeyPrefix = "report:"

type Repository interface {
	// Create persists a new report; an id collision yields
	// core.ErrDuplicateKey so the caller can regenerate and retry.
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	Update(ctx context.Context, r *Report) error
	List(ctx context.Context) ([]*Report, error)
	ListByUser(ctx context.Context, userID string) ([]*Report, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Create(ctx context.Context, report *Report) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	ok, err := r.store.SetNX(ctx, reportKeyPrefix+report.ID, doc)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if !ok {
		return fmt.Errorf("create report: %w", core.ErrDuplicateKey)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Report, error) {
	raw, err := r.store.Get(ctx, reportKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return &report, nil
}

func (r *repository) Update(ctx context.Context, report *Report) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := r.store.Set(ctx, reportKeyPrefix+report.ID, doc); err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]*Report, error) {
	return r.scan(ctx, func(*Report) bool { return true })
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*Report, error) {
	return r.scan(ctx, func(report *Report) bool {
		return report.UserID == userID
	})
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int, error) {
	reports, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		StatusPending:  0,
		StatusReviewed: 0,
		StatusResolved: 0,
	}
	for _, report := range reports {
		counts[report.Status]++
	}

	return counts, nil
}

// scan walks every report document, keeping the ones keep accepts, newest
// first.
func (r *repository) scan(
	ctx context.Context,
	keep func(*Report) bool,
) ([]*Report, error) {
	values, err := r.store.GetByPrefix(ctx, reportKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]*Report, 0, len(values))
	for _, value := range values {
		var report Report
		if err := json.Unmarshal(value, &report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		if keep(&report) {
			reports = append(reports, &report)
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	return reports, nil
}
