package domain

import (
	"context"

	"github.com/yaegashi/kompoxwl/domain/model"
)

// ReleaseRepository stores rendered releases.
type ReleaseRepository interface {
	Create(ctx context.Context, r *model.Release) error
	Get(ctx context.Context, id string) (*model.Release, error)
	// List returns releases of the named workload (all workloads when empty), oldest first.
	List(ctx context.Context, workload string) ([]*model.Release, error)
}

// Repositories groups repository interfaces.
type Repositories struct {
	Release ReleaseRepository
}
