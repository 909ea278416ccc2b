package dashboard

import (
	"context"
	"log/slog"
)

const defaultRecentLimit = 10

type Repository interface {
	Totals(ctx context.Context, employee string) (Totals, error)
	Recent(ctx context.Context, employee string, limit int) ([]RecentRow, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Stats returns zeroed figures for actors without an employee record.
func (s *Service) Stats(ctx context.Context, employee string) (Stats, error) {
	if employee == "" {
		return Stats{}, nil
	}
	totals, err := s.repo.Totals(ctx, employee)
	if err != nil {
		s.logger.Error("failed to aggregate timesheets", "error", err, "employee", employee)
		return Stats{}, err
	}
	return totals.Stats(), nil
}

func (s *Service) Recent(ctx context.Context, employee string, limit int) ([]RecentTimesheet, error) {
	if employee == "" {
		return []RecentTimesheet{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.repo.Recent(ctx, employee, limit)
	if err != nil {
		s.logger.Error("failed to load recent timesheets", "error", err, "employee", employee)
		return nil, err
	}
	out := make([]RecentTimesheet, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.View())
	}
	return out, nil
}
