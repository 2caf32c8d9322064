//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// SpyMetricsRepository records the reports it receives.
type SpyMetricsRepository struct {
	Err     error
	Reports []*entities.PassReport
}

var _ repositories.MetricsRepository = (*SpyMetricsRepository)(nil)

func (s *SpyMetricsRepository) Record(_ context.Context, report *entities.PassReport) error {
	s.Reports = append(s.Reports, report)
	return s.Err
}
