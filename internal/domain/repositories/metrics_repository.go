package repositories

import (
	"context"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// MetricsRepository exports the outcome of a pass.
type MetricsRepository interface {
	Record(ctx context.Context, report *entities.PassReport) error
}
