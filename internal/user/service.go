// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("get user: %w", core.ErrInvalidInput)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
